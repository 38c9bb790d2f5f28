package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a collector- or supplier-owned listing.
type InventoryItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID   uuid.UUID       `gorm:"column:owner_id;type:uuid;not null;index"`
	Name      string          `gorm:"column:name;not null"`
	Category  string          `gorm:"column:category;not null"`
	Quantity  decimal.Decimal `gorm:"column:quantity;type:numeric(12,2);not null"`
	Unit      string          `gorm:"column:unit;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Image     *string         `gorm:"column:image"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
