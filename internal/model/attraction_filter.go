package model

// AccessibilityFlag selects attractions offering a given accessibility feature.
type AccessibilityFlag string

const (
	AccessibilityWheelchair   AccessibilityFlag = "wheelchair"
	AccessibilityAudio        AccessibilityFlag = "audio"
	AccessibilityElevator     AccessibilityFlag = "elevator"
	AccessibilitySignLanguage AccessibilityFlag = "sign_language"
)

// AccessibilityFlags lists the accepted flags in display order.
var AccessibilityFlags = []AccessibilityFlag{
	AccessibilityWheelchair,
	AccessibilityAudio,
	AccessibilityElevator,
	AccessibilitySignLanguage,
}

// Column returns the attractions column backing the flag.
func (f AccessibilityFlag) Column() (string, bool) {
	switch f {
	case AccessibilityWheelchair:
		return "wheelchair_accessible", true
	case AccessibilityAudio:
		return "has_audio_guide", true
	case AccessibilityElevator:
		return "has_elevator", true
	case AccessibilitySignLanguage:
		return "sign_language_support", true
	default:
		return "", false
	}
}

// SortMode is the ordering of a catalog listing.
type SortMode string

const (
	SortByName     SortMode = "name"
	SortByNewest   SortMode = "newest"
	SortByOldest   SortMode = "oldest"
	SortByCategory SortMode = "category"
)

// SortModes lists the accepted sort modes.
var SortModes = []SortMode{SortByName, SortByNewest, SortByOldest, SortByCategory}

// Listing defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 50
)

// AttractionFilter is a normalized catalog query. Nil pointers mean "no
// constraint"; Sort, Page and Limit always hold a value.
type AttractionFilter struct {
	SearchText     *string
	CategoryID     *uint
	MetroStationID *uint
	Accessibility  *AccessibilityFlag
	Sort           SortMode
	Page           int
	Limit          int
}

// DefaultAttractionFilter returns the filter used when no parameter is given.
func DefaultAttractionFilter() AttractionFilter {
	return AttractionFilter{
		Sort:  SortByName,
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}
}

// Offset is the number of rows skipped before the current page.
func (f AttractionFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}
