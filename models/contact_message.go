package models

import "time"

// Contact message workflow states.
const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

type ContactMessage struct {
	ID        int64     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" db:"name" gorm:"size:255;not null"`
	Email     string    `json:"email" db:"email" gorm:"size:255;not null"`
	Phone     *string   `json:"phone" db:"phone" gorm:"size:50"`
	Subject   string    `json:"subject" db:"subject" gorm:"size:255;not null"`
	Message   string    `json:"message" db:"message" gorm:"type:text;not null"`
	Status    string    `json:"status" db:"status" gorm:"size:50;not null;default:new;index:idx_contact_messages_status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`
}

type ContactMessageInput struct {
	Name    string  `json:"name" validate:"required,min=2,max=255"`
	Email   string  `json:"email" validate:"required,email,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Subject string  `json:"subject" validate:"required,min=3,max=255"`
	Message string  `json:"message" validate:"required,min=10,max=1000"`
}

func (in ContactMessageInput) ToContactMessage() ContactMessage {
	return ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   nonEmpty(in.Phone),
		Subject: in.Subject,
		Message: in.Message,
		Status:  ContactStatusNew,
	}
}

// ContactStatusInput moves a message through new -> read -> replied.
type ContactStatusInput struct {
	Status string `json:"status" validate:"required,oneof=new read replied archived"`
}
