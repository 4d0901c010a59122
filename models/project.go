package models

import "time"

// Project is a completed or ongoing construction job shown in the portfolio.
type Project struct {
	ID             int64     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Title          string    `json:"title" db:"title" gorm:"size:255;not null"`
	Description    string    `json:"description" db:"description" gorm:"type:text;not null"`
	Category       string    `json:"category" db:"category" gorm:"size:100;not null;index:idx_projects_category"`
	Location       string    `json:"location" db:"location" gorm:"size:255;not null"`
	ImageURL       string    `json:"imageUrl" db:"image_url" gorm:"column:image_url;size:255;not null"`
	CompletionDate *string   `json:"completionDate" db:"completion_date" gorm:"size:100"`
	ClientName     *string   `json:"clientName" db:"client_name" gorm:"size:255"`
	Featured       bool      `json:"featured" db:"featured" gorm:"not null;default:false;index:idx_projects_featured"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`
}

// ProjectInput is the accepted shape of a new project.
type ProjectInput struct {
	Title          string  `json:"title" validate:"required,max=255"`
	Description    string  `json:"description" validate:"required"`
	Category       string  `json:"category" validate:"required,max=100"`
	Location       string  `json:"location" validate:"required,max=255"`
	ImageURL       string  `json:"imageUrl" validate:"required,max=255"`
	CompletionDate *string `json:"completionDate" validate:"omitempty,max=100"`
	ClientName     *string `json:"clientName" validate:"omitempty,max=255"`
	Featured       *Flag   `json:"featured"`
}

func (in ProjectInput) ToProject() Project {
	return Project{
		Title:          in.Title,
		Description:    in.Description,
		Category:       in.Category,
		Location:       in.Location,
		ImageURL:       in.ImageURL,
		CompletionDate: nonEmpty(in.CompletionDate),
		ClientName:     nonEmpty(in.ClientName),
		Featured:       in.Featured.Or(false),
	}
}
