package gormstore

import (
	"context"
	"errors"

	"github.com/rpupo63/buildsite-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns every project, most recent first
func (r *ProjectRepo) FindAll(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&projects).Error
	return nonNil(projects), err
}

// FindFeatured returns projects flagged for the landing page, most recent first
func (r *ProjectRepo) FindFeatured(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("featured = ?", true).
		Order("created_at DESC").Order("id DESC").
		Find(&projects).Error
	return nonNil(projects), err
}

// FindByID returns a project by its ID, or nil when there is none
func (r *ProjectRepo) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}
