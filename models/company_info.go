package models

import "time"

// CompanyInfo is one block of narrative content keyed by section
// ("about", "mission", "vision", "values", ...).
type CompanyInfo struct {
	ID        int64     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Section   string    `json:"section" db:"section" gorm:"size:100;not null;uniqueIndex:idx_company_info_section"`
	Content   string    `json:"content" db:"content" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" gorm:"not null;autoUpdateTime"`
}

// TableName keeps the singular table name of the existing schema.
func (CompanyInfo) TableName() string {
	return "company_info"
}

type CompanyInfoInput struct {
	Section string `json:"section" validate:"required,max=100,section"`
	Content string `json:"content" validate:"required"`
}

func (in CompanyInfoInput) ToCompanyInfo() CompanyInfo {
	return CompanyInfo{Section: in.Section, Content: in.Content}
}
