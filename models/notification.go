package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationSleepoverApproved = "sleepover_approved"
	NotificationSleepoverRejected = "sleepover_rejected"
)

type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"userId"`
	Type        string     `gorm:"size:40;not null" json:"type"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	SleepoverID *uuid.UUID `gorm:"type:uuid" json:"sleepoverId,omitempty"`
	Read        bool       `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
