package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// DateLayout is the wire and storage format of SleepoverRequest.Date
const DateLayout = "2006-01-02"

// SleepoverRequest is a student's request to host an overnight visitor
type SleepoverRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID   uint       `gorm:"index;not null" json:"studentId"`
	Student     User       `gorm:"foreignKey:StudentID" json:"-"`
	RoomID      string     `gorm:"size:20;index;not null" json:"roomId"` // room number
	VisitorName string     `gorm:"size:255;not null" json:"visitorName"`
	VisitorID   string     `gorm:"size:64;not null" json:"visitorId"`
	PhoneNumber string     `gorm:"size:32;not null" json:"phoneNumber"`
	Date        string     `gorm:"size:10;index;not null" json:"date"`
	Status      string     `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	ReviewedBy  *uint      `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
	ReviewNote  string     `gorm:"type:text" json:"reviewNote,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	StudentName  string `gorm:"-" json:"studentName,omitempty"`
	StudentEmail string `gorm:"-" json:"studentEmail,omitempty"`
}

func (r *SleepoverRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// AfterFind copies the student's identity when the association was preloaded
func (r *SleepoverRequest) AfterFind(tx *gorm.DB) error {
	if r.Student.ID != 0 {
		r.StudentName = r.Student.Name
		r.StudentEmail = r.Student.Email
	}
	return nil
}
