package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

// Repository persists transaction rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	FindCODByOrderID(ctx context.Context, orderID string) (*models.Transaction, error)
	FindByOrderAndSeller(ctx context.Context, orderID string, sellerID uuid.UUID) (*models.Transaction, error)
	FindByWithdrawalID(ctx context.Context, withdrawalID uuid.UUID) (*models.Transaction, error)
	Update(ctx context.Context, txn *models.Transaction) error
	ListBySeller(ctx context.Context, sellerID uuid.UUID, cod bool) ([]models.Transaction, error)
	ListByMethodClass(ctx context.Context, cod bool) ([]models.Transaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a transaction repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) FindCODByOrderID(ctx context.Context, orderID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND payment_method = ?", orderID, enums.PaymentMethodCOD).
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) FindByOrderAndSeller(ctx context.Context, orderID string, sellerID uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND seller_id = ?", orderID, sellerID).
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) FindByWithdrawalID(ctx context.Context, withdrawalID uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Where("withdrawal_id = ?", withdrawalID).
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) Update(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

func (r *repository) ListBySeller(ctx context.Context, sellerID uuid.UUID, cod bool) ([]models.Transaction, error) {
	query := r.db.WithContext(ctx).Where("seller_id = ?", sellerID)
	query = filterMethodClass(query, cod)

	var rows []models.Transaction
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByMethodClass(ctx context.Context, cod bool) ([]models.Transaction, error) {
	query := filterMethodClass(r.db.WithContext(ctx), cod)

	var rows []models.Transaction
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func filterMethodClass(query *gorm.DB, cod bool) *gorm.DB {
	if cod {
		return query.Where("payment_method = ?", enums.PaymentMethodCOD)
	}
	return query.Where("payment_method <> ?", enums.PaymentMethodCOD)
}
