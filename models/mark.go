package models

import "time"

// Mark colors accepted by the API.
const (
	ColorBlue  = "blue"
	ColorGreen = "green"
	ColorSplit = "split"
)

func ValidColor(c string) bool {
	switch c {
	case ColorBlue, ColorGreen, ColorSplit:
		return true
	}
	return false
}

// Mark is a colored pin on the map. Marks are immutable after creation
// and are deleted by the sweeper once ExpiresAt passes.
type Mark struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Lat       float64   `gorm:"not null" json:"lat"`
	Lng       float64   `gorm:"not null" json:"lng"`
	Color     string    `gorm:"size:16;not null" json:"color"` // "blue" | "green" | "split"
	Street    *string   `json:"street"`
	Note      *string   `gorm:"type:text" json:"note"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
}
