package gormstore

import (
	"context"
	"errors"

	"github.com/rpupo63/buildsite-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompanyInfoRepo struct {
	db *gorm.DB
}

func NewCompanyInfoRepo(db *gorm.DB) *CompanyInfoRepo {
	return &CompanyInfoRepo{db}
}

func (r *CompanyInfoRepo) FindAll(ctx context.Context) ([]models.CompanyInfo, error) {
	var info []models.CompanyInfo
	err := r.db.WithContext(ctx).Order("section ASC").Find(&info).Error
	return nonNil(info), err
}

// FindBySection returns the section's content, or nil when it was never written
func (r *CompanyInfoRepo) FindBySection(ctx context.Context, section string) (*models.CompanyInfo, error) {
	var info models.CompanyInfo
	err := r.db.WithContext(ctx).Where("section = ?", section).First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Upsert inserts the section or replaces its content in one statement.
func (r *CompanyInfoRepo) Upsert(ctx context.Context, info *models.CompanyInfo) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "section"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(info).Error
}
