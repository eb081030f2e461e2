package model

import "time"

// MetroStation is the nearest metro station of an attraction.
type MetroStation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null;index"`
	Line      string    `json:"line,omitempty" gorm:"size:100"`
	Color     string    `json:"color,omitempty" gorm:"size:7"` // #RRGGBB
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
