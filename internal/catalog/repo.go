package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

// ErrInsufficientStock is returned when a decrement would take a listing's
// quantity below zero, or when the listing does not exist.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository adjusts stock levels for listed produce. Farmers sell from the
// products table, collectors and suppliers from inventory_items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Decrement(ctx context.Context, sellerRole enums.Role, itemID uuid.UUID, qty decimal.Decimal) error
	Restock(ctx context.Context, sellerRole enums.Role, itemID uuid.UUID, qty decimal.Decimal) error
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

func (r *repository) table(sellerRole enums.Role) string {
	if sellerRole == enums.RoleFarmer {
		return "products"
	}
	return "inventory_items"
}

// Decrement takes qty off the listing. The stock check rides in the WHERE
// clause so two concurrent sales cannot both pass it.
func (r *repository) Decrement(ctx context.Context, sellerRole enums.Role, itemID uuid.UUID, qty decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Table(r.table(sellerRole)).
		Where("id = ? AND quantity >= ?", itemID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *repository) Restock(ctx context.Context, sellerRole enums.Role, itemID uuid.UUID, qty decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Table(r.table(sellerRole)).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", qty)).Error
}
