package gormstore

import (
	"context"
	"errors"

	"github.com/rpupo63/buildsite-backend/models"
	"gorm.io/gorm"
)

type ServiceRepo struct {
	db *gorm.DB
}

func NewServiceRepo(db *gorm.DB) *ServiceRepo {
	return &ServiceRepo{db}
}

// FindAll returns every service ordered by title
func (r *ServiceRepo) FindAll(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).Order("title ASC").Order("id ASC").Find(&services).Error
	return nonNil(services), err
}

// FindFeatured returns featured services ordered by title
func (r *ServiceRepo) FindFeatured(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).
		Where("featured = ?", true).
		Order("title ASC").Order("id ASC").
		Find(&services).Error
	return nonNil(services), err
}

func (r *ServiceRepo) FindByID(ctx context.Context, id int64) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).First(&service, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *ServiceRepo) Add(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}
