package models

import (
	"time"
)

// Room is a dormitory room that can host overnight visitors
type Room struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Number    string    `gorm:"size:20;not null;unique" json:"number"`
	Building  string    `gorm:"size:255" json:"building"`
	MaxGuests int       `gorm:"not null;default:1" json:"maxGuests"` // per night, pending + approved
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
