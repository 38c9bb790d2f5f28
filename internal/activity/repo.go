package activity

import (
	"context"

	"gorm.io/gorm"

	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
)

// Repository persists audit entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.Activity) error
	Recent(ctx context.Context, limit int) ([]models.Activity, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an activity repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.Activity) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	var rows []models.Activity
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
