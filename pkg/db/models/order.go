package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

// OrderProduct is the immutable line-item snapshot embedded in an order.
// Prices and names are captured at checkout so later catalog edits do not
// rewrite order history.
type OrderProduct struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Unit      string          `json:"unit"`
	Category  string          `json:"category"`
	Image     *string         `json:"image,omitempty"`
}

// Order is a per-seller order. A multi-seller checkout produces one row per
// seller, all sharing a transaction UUID. The composite unique index on
// (transaction_uuid, seller_id) is the storage-level duplicate settlement
// guard.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	OrderID         string                `gorm:"column:order_id;not null;uniqueIndex"`
	BuyerID         uuid.UUID             `gorm:"column:buyer_id;type:uuid;not null;index"`
	SellerID        uuid.UUID             `gorm:"column:seller_id;type:uuid;not null;index:idx_orders_txn_seller,unique,priority:2"`
	SellerRole      enums.Role            `gorm:"column:seller_role;type:text;not null"`
	Products        []OrderProduct        `gorm:"column:products;type:jsonb;serializer:json;not null"`
	TotalAmount     decimal.Decimal       `gorm:"column:total_amount;type:numeric(12,2);not null"`
	DeliveryCharge  decimal.Decimal       `gorm:"column:delivery_charge;type:numeric(12,2);not null"`
	Status          enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'Pending'"`
	PaymentStatus   enums.PaymentStatus   `gorm:"column:payment_status;type:text;not null;default:'Pending'"`
	PaymentMethod   enums.PaymentMethod   `gorm:"column:payment_method;type:text;not null"`
	TransactionUUID string                `gorm:"column:transaction_uuid;not null;index:idx_orders_txn_seller,unique,priority:1"`
	TransactionCode *string               `gorm:"column:transaction_code"`
	IsStocked       bool                  `gorm:"column:is_stocked;not null;default:false"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// GrandTotal is the amount the buyer owes for this row.
func (o Order) GrandTotal() decimal.Decimal {
	return o.TotalAmount.Add(o.DeliveryCharge)
}
