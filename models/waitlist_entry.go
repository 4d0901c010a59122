package models

import (
	"strings"
	"time"
)

type WaitlistEntry struct {
	ID             int64     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name           string    `json:"name" db:"name" gorm:"size:255;not null"`
	Email          string    `json:"email" db:"email" gorm:"size:255;not null;uniqueIndex:idx_waitlist_entries_email"`
	AcceptsUpdates bool      `json:"acceptsUpdates" db:"accepts_updates" gorm:"not null"`
	Phone          *string   `json:"phone" db:"phone" gorm:"size:50"`
	Company        *string   `json:"company" db:"company" gorm:"size:255"`
	Message        *string   `json:"message" db:"message" gorm:"type:text"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`
}

type WaitlistEntryInput struct {
	Name           string  `json:"name" validate:"required,min=2,max=255"`
	Email          string  `json:"email" validate:"required,email,max=255"`
	AcceptsUpdates *Flag   `json:"acceptsUpdates"`
	Phone          *string `json:"phone" validate:"omitempty,max=50"`
	Company        *string `json:"company" validate:"omitempty,max=255"`
	Message        *string `json:"message" validate:"omitempty,max=1000"`
}

// ToWaitlistEntry lowercases the email so uniqueness does not depend on the
// collation of the backing store.
func (in WaitlistEntryInput) ToWaitlistEntry() WaitlistEntry {
	return WaitlistEntry{
		Name:           in.Name,
		Email:          strings.ToLower(in.Email),
		AcceptsUpdates: in.AcceptsUpdates.Or(true),
		Phone:          nonEmpty(in.Phone),
		Company:        nonEmpty(in.Company),
		Message:        nonEmpty(in.Message),
	}
}
