package gormstore

import (
	"context"
	"errors"
	"strings"

	"github.com/rpupo63/buildsite-backend/models"
	"gorm.io/gorm"
)

type WaitlistRepo struct {
	db *gorm.DB
}

func NewWaitlistRepo(db *gorm.DB) *WaitlistRepo {
	return &WaitlistRepo{db}
}

func (r *WaitlistRepo) FindAll(ctx context.Context) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&entries).Error
	return nonNil(entries), err
}

func (r *WaitlistRepo) FindByEmail(ctx context.Context, email string) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Add relies on the unique index on email; the caller translates the
// violation into storage.ErrDuplicate.
func (r *WaitlistRepo) Add(ctx context.Context, entry *models.WaitlistEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
