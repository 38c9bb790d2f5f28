package wallet

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
)

// Repository persists wallets. Mutations are optimistic: UpdateGuarded only
// applies when the caller-observed version still matches.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, wallet *models.Wallet) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error)
	UpdateGuarded(ctx context.Context, wallet *models.Wallet, expectedVersion int64) (bool, error)
	DebitAvailable(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a wallet repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, wallet *models.Wallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *repository) UpdateGuarded(ctx context.Context, wallet *models.Wallet, expectedVersion int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("id = ? AND version = ?", wallet.ID, expectedVersion).
		Updates(map[string]any{
			"available_balance": wallet.AvailableBalance,
			"locked_balance":    wallet.LockedBalance,
			"total_earnings":    wallet.TotalEarnings,
			"is_frozen":         wallet.IsFrozen,
			"version":           expectedVersion + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	wallet.Version = expectedVersion + 1
	return true, nil
}

// DebitAvailable applies a single guarded decrement. The balance check rides
// in the WHERE clause so two concurrent debits cannot both pass it.
func (r *repository) DebitAvailable(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("user_id = ? AND available_balance >= ?", userID, amount).
		Updates(map[string]any{
			"available_balance": gorm.Expr("available_balance - ?", amount),
			"version":           gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
