package models

import "time"

// PageVisit and FormSubmission are append-only analytics rows. Timestamps
// are always assigned by the server.
type PageVisit struct {
	ID        int64     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Page      string    `json:"page" db:"page" gorm:"size:255;not null;index:idx_page_visits_page"`
	Timestamp time.Time `json:"timestamp" db:"timestamp" gorm:"column:timestamp;not null;autoCreateTime"`
}

type FormSubmission struct {
	ID        int64     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	FormType  string    `json:"formType" db:"form_type" gorm:"column:form_type;size:100;not null;index:idx_form_submissions_form_type"`
	Timestamp time.Time `json:"timestamp" db:"timestamp" gorm:"column:timestamp;not null;autoCreateTime"`
}

// Form types recorded alongside the primary write.
const (
	FormTypeWaitlist = "waitlist"
	FormTypeContact  = "contact"
)

type PageVisitInput struct {
	Page string `json:"page" validate:"required,max=255"`
}

type FormSubmissionInput struct {
	FormType string `json:"formType" validate:"required,max=100"`
}
