package models

import "time"

// Service is an offering listed on the services page. IconName is resolved to
// an icon by the front end and is never interpreted here.
type Service struct {
	ID          int64     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" db:"title" gorm:"size:255;not null"`
	Description string    `json:"description" db:"description" gorm:"type:text;not null"`
	IconName    string    `json:"iconName" db:"icon_name" gorm:"column:icon_name;size:100;not null"`
	Featured    bool      `json:"featured" db:"featured" gorm:"not null;default:false;index:idx_services_featured"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`
}

type ServiceInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	IconName    string `json:"iconName" validate:"required,max=100"`
	Featured    *Flag  `json:"featured"`
}

func (in ServiceInput) ToService() Service {
	return Service{
		Title:       in.Title,
		Description: in.Description,
		IconName:    in.IconName,
		Featured:    in.Featured.Or(false),
	}
}
