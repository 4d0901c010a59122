package gormstore

import (
	"context"

	"github.com/rpupo63/buildsite-backend/models"
	"gorm.io/gorm"
)

// AnalyticsRepo writes the append-only page_visits and form_submissions logs.
type AnalyticsRepo struct {
	db *gorm.DB
}

func NewAnalyticsRepo(db *gorm.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db}
}

func (r *AnalyticsRepo) AddPageVisit(ctx context.Context, visit *models.PageVisit) error {
	return r.db.WithContext(ctx).Create(visit).Error
}

func (r *AnalyticsRepo) AddFormSubmission(ctx context.Context, submission *models.FormSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *AnalyticsRepo) PageVisits(ctx context.Context) ([]models.PageVisit, error) {
	var visits []models.PageVisit
	err := r.db.WithContext(ctx).Order("timestamp DESC").Order("id DESC").Find(&visits).Error
	return nonNil(visits), err
}

func (r *AnalyticsRepo) FormSubmissions(ctx context.Context) ([]models.FormSubmission, error) {
	var submissions []models.FormSubmission
	err := r.db.WithContext(ctx).Order("timestamp DESC").Order("id DESC").Find(&submissions).Error
	return nonNil(submissions), err
}
