package gormstore

import (
	"context"
	"errors"

	"github.com/rpupo63/buildsite-backend/models"
	"gorm.io/gorm"
)

type ContactMessageRepo struct {
	db *gorm.DB
}

func NewContactMessageRepo(db *gorm.DB) *ContactMessageRepo {
	return &ContactMessageRepo{db}
}

func (r *ContactMessageRepo) FindAll(ctx context.Context) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&messages).Error
	return nonNil(messages), err
}

func (r *ContactMessageRepo) FindByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	var message models.ContactMessage
	err := r.db.WithContext(ctx).First(&message, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *ContactMessageRepo) Add(ctx context.Context, message *models.ContactMessage) error {
	if message.Status == "" {
		message.Status = models.ContactStatusNew
	}
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *ContactMessageRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Update("status", status).Error
}
