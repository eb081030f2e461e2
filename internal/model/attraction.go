package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attraction is a catalog entry. Only published attractions are visible on the
// public API; admins see all of them.
type Attraction struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	Name             string          `json:"name" gorm:"size:255;not null;index"`
	ShortDescription string          `json:"short_description" gorm:"size:500"`
	FullDescription  string          `json:"full_description" gorm:"type:text"`
	Address          string          `json:"address,omitempty" gorm:"size:500"`
	WorkingHours     string          `json:"working_hours,omitempty" gorm:"size:255"`
	Website          string          `json:"website,omitempty" gorm:"size:500"`
	Latitude         *float64        `json:"latitude,omitempty"`
	Longitude        *float64        `json:"longitude,omitempty"`
	TicketPrice      decimal.Decimal `json:"ticket_price" gorm:"type:decimal(10,2);not null;default:0"`
	CategoryID       uint            `json:"category_id" gorm:"not null;index"`
	MetroStationID   *uint           `json:"metro_station_id,omitempty" gorm:"index"`

	WheelchairAccessible bool `json:"wheelchair_accessible" gorm:"not null;default:false"`
	HasAudioGuide        bool `json:"has_audio_guide" gorm:"not null;default:false"`
	HasElevator          bool `json:"has_elevator" gorm:"not null;default:false"`
	SignLanguageSupport  bool `json:"sign_language_support" gorm:"not null;default:false"`

	IsPublished bool      `json:"is_published" gorm:"not null;default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Category     *Category         `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	MetroStation *MetroStation     `json:"metro_station,omitempty" gorm:"foreignKey:MetroStationID;constraint:OnDelete:SET NULL"`
	PrimaryImage *AttractionImage  `json:"primary_image,omitempty" gorm:"foreignKey:AttractionID"`
	Images       []AttractionImage `json:"images,omitempty" gorm:"foreignKey:AttractionID;constraint:OnDelete:CASCADE"`
}
