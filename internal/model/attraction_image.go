package model

import "time"

// AttractionImage is an image reference attached to an attraction. Files
// themselves live outside the database; URL points at them.
type AttractionImage struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AttractionID uint      `json:"attraction_id" gorm:"not null;index"`
	URL          string    `json:"url" gorm:"size:1000;not null"`
	AltText      string    `json:"alt_text,omitempty" gorm:"size:255"`
	IsPrimary    bool      `json:"is_primary" gorm:"not null;default:false;index"`
	SortOrder    int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
}
