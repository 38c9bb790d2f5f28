package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentDetails carries a seller's payout destination.
type PaymentDetails struct {
	Method    string `json:"method"`
	GatewayID string `json:"gateway_id"`
}

// FarmerProfile holds farm-specific attributes for a farmer user.
type FarmerProfile struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	FarmName       string          `gorm:"column:farm_name;not null"`
	FarmLocation   *string         `gorm:"column:farm_location"`
	PaymentDetails *PaymentDetails `gorm:"column:payment_details;type:jsonb;serializer:json"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// CollectorProfile holds attributes for a collector user.
type CollectorProfile struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	CompanyName    string          `gorm:"column:company_name;not null"`
	Location       *string         `gorm:"column:location"`
	PaymentDetails *PaymentDetails `gorm:"column:payment_details;type:jsonb;serializer:json"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// SupplierProfile holds attributes for a supplier user.
type SupplierProfile struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	CompanyName    string          `gorm:"column:company_name;not null"`
	Location       *string         `gorm:"column:location"`
	PaymentDetails *PaymentDetails `gorm:"column:payment_details;type:jsonb;serializer:json"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// BuyerProfile holds attributes for a buyer user.
type BuyerProfile struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	DeliveryAddress *string   `gorm:"column:delivery_address"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
