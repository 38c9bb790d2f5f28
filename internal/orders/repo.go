package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

// Repository persists orders. It also implements the reader interface the
// ledger package reconciles over.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	ListByTransactionUUID(ctx context.Context, transactionUUID string) ([]models.Order, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)
	ListForSeller(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error)
	ListByMethodClass(ctx context.Context, cod bool) ([]models.Order, error)
	ListBySellerAndMethodClass(ctx context.Context, sellerID uuid.UUID, cod bool) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByTransactionUUID(ctx context.Context, transactionUUID string) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).
		Where("transaction_uuid = ?", transactionUUID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListForSeller(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListByMethodClass(ctx context.Context, cod bool) ([]models.Order, error) {
	var out []models.Order
	err := filterMethodClass(r.db.WithContext(ctx), cod).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListBySellerAndMethodClass(ctx context.Context, sellerID uuid.UUID, cod bool) ([]models.Order, error) {
	var out []models.Order
	err := filterMethodClass(r.db.WithContext(ctx).Where("seller_id = ?", sellerID), cod).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

func filterMethodClass(q *gorm.DB, cod bool) *gorm.DB {
	if cod {
		return q.Where("payment_method = ?", enums.PaymentMethodCOD)
	}
	return q.Where("payment_method <> ?", enums.PaymentMethodCOD)
}
