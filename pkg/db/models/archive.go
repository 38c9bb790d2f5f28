package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

// Archive shadows mirror their live records field for field, adding the
// original primary key, the actor who triggered the delete, and the original
// creation time. They are audit copies, not a source of truth: re-archiving
// an already archived row on a cascade retry is harmless.

type ArchivedUser struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OriginalID        uuid.UUID  `gorm:"column:original_id;type:uuid;not null;index"`
	Name              string     `gorm:"column:name;not null"`
	Email             string     `gorm:"column:email;not null"`
	Phone             *string    `gorm:"column:phone"`
	Address           *string    `gorm:"column:address"`
	Role              enums.Role `gorm:"column:role;type:text;not null"`
	Status            string     `gorm:"column:status;not null"`
	DocStatus         string     `gorm:"column:doc_status;not null"`
	ProfileImage      *string    `gorm:"column:profile_image"`
	DeletedBy         string     `gorm:"column:deleted_by;not null"`
	Reason            *string    `gorm:"column:reason"`
	OriginalCreatedAt time.Time  `gorm:"column:original_created_at;not null"`
	ArchivedAt        time.Time  `gorm:"column:archived_at;autoCreateTime"`
}

type ArchivedFarmerProfile struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OriginalID        uuid.UUID       `gorm:"column:original_id;type:uuid;not null;index"`
	UserID            uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	FarmName          string          `gorm:"column:farm_name;not null"`
	FarmLocation      *string         `gorm:"column:farm_location"`
	PaymentDetails    *PaymentDetails `gorm:"column:payment_details;type:jsonb;serializer:json"`
	DeletedBy         string          `gorm:"column:deleted_by;not null"`
	OriginalCreatedAt time.Time       `gorm:"column:original_created_at;not null"`
	ArchivedAt        time.Time       `gorm:"column:archived_at;autoCreateTime"`
}

type ArchivedCollectorProfile struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OriginalID        uuid.UUID       `gorm:"column:original_id;type:uuid;not null;index"`
	UserID            uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	CompanyName       string          `gorm:"column:company_name;not null"`
	Location          *string         `gorm:"column:location"`
	PaymentDetails    *PaymentDetails `gorm:"column:payment_details;type:jsonb;serializer:json"`
	DeletedBy         string          `gorm:"column:deleted_by;not null"`
	OriginalCreatedAt time.Time       `gorm:"column:original_created_at;not null"`
	ArchivedAt        time.Time       `gorm:"column:archived_at;autoCreateTime"`
}

type ArchivedSupplierProfile struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OriginalID        uuid.UUID       `gorm:"column:original_id;type:uuid;not null;index"`
	UserID            uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	CompanyName       string          `gorm:"column:company_name;not null"`
	Location          *string         `gorm:"column:location"`
	PaymentDetails    *PaymentDetails `gorm:"column:payment_details;type:jsonb;serializer:json"`
	DeletedBy         string          `gorm:"column:deleted_by;not null"`
	OriginalCreatedAt time.Time       `gorm:"column:original_created_at;not null"`
	ArchivedAt        time.Time       `gorm:"column:archived_at;autoCreateTime"`
}

type ArchivedBuyerProfile struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OriginalID        uuid.UUID `gorm:"column:original_id;type:uuid;not null;index"`
	UserID            uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	DeliveryAddress   *string   `gorm:"column:delivery_address"`
	DeletedBy         string    `gorm:"column:deleted_by;not null"`
	OriginalCreatedAt time.Time `gorm:"column:original_created_at;not null"`
	ArchivedAt        time.Time `gorm:"column:archived_at;autoCreateTime"`
}

type ArchivedProduct struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OriginalID        uuid.UUID       `gorm:"column:original_id;type:uuid;not null;index"`
	OwnerID           uuid.UUID       `gorm:"column:owner_id;type:uuid;not null"`
	Name              string          `gorm:"column:name;not null"`
	Category          string          `gorm:"column:category;not null"`
	Quantity          decimal.Decimal `gorm:"column:quantity;type:numeric(12,2);not null"`
	Unit              string          `gorm:"column:unit;not null"`
	Price             decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Image             *string         `gorm:"column:image"`
	DeletedBy         string          `gorm:"column:deleted_by;not null"`
	OriginalCreatedAt time.Time       `gorm:"column:original_created_at;not null"`
	ArchivedAt        time.Time       `gorm:"column:archived_at;autoCreateTime"`
}

type ArchivedInventoryItem struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OriginalID        uuid.UUID       `gorm:"column:original_id;type:uuid;not null;index"`
	OwnerID           uuid.UUID       `gorm:"column:owner_id;type:uuid;not null"`
	Name              string          `gorm:"column:name;not null"`
	Category          string          `gorm:"column:category;not null"`
	Quantity          decimal.Decimal `gorm:"column:quantity;type:numeric(12,2);not null"`
	Unit              string          `gorm:"column:unit;not null"`
	Price             decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Image             *string         `gorm:"column:image"`
	DeletedBy         string          `gorm:"column:deleted_by;not null"`
	OriginalCreatedAt time.Time       `gorm:"column:original_created_at;not null"`
	ArchivedAt        time.Time       `gorm:"column:archived_at;autoCreateTime"`
}

type ArchivedOrder struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OriginalID        uuid.UUID           `gorm:"column:original_id;type:uuid;not null;index"`
	OrderID           string              `gorm:"column:order_id;not null"`
	BuyerID           uuid.UUID           `gorm:"column:buyer_id;type:uuid;not null"`
	SellerID          uuid.UUID           `gorm:"column:seller_id;type:uuid;not null"`
	SellerRole        enums.Role          `gorm:"column:seller_role;type:text;not null"`
	Products          []OrderProduct      `gorm:"column:products;type:jsonb;serializer:json;not null"`
	TotalAmount       decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	DeliveryCharge    decimal.Decimal     `gorm:"column:delivery_charge;type:numeric(12,2);not null"`
	Status            enums.OrderStatus   `gorm:"column:status;type:text;not null"`
	PaymentStatus     enums.PaymentStatus `gorm:"column:payment_status;type:text;not null"`
	PaymentMethod     enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	TransactionUUID   string              `gorm:"column:transaction_uuid;not null"`
	TransactionCode   *string             `gorm:"column:transaction_code"`
	IsStocked         bool                `gorm:"column:is_stocked;not null"`
	DeletedBy         string              `gorm:"column:deleted_by;not null"`
	OriginalCreatedAt time.Time           `gorm:"column:original_created_at;not null"`
	ArchivedAt        time.Time           `gorm:"column:archived_at;autoCreateTime"`
}

type ArchivedWallet struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OriginalID        uuid.UUID       `gorm:"column:original_id;type:uuid;not null;index"`
	UserID            uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	AvailableBalance  decimal.Decimal `gorm:"column:available_balance;type:numeric(12,2);not null"`
	LockedBalance     decimal.Decimal `gorm:"column:locked_balance;type:numeric(12,2);not null"`
	TotalEarnings     decimal.Decimal `gorm:"column:total_earnings;type:numeric(12,2);not null"`
	IsFrozen          bool            `gorm:"column:is_frozen;not null"`
	DeletedBy         string          `gorm:"column:deleted_by;not null"`
	OriginalCreatedAt time.Time       `gorm:"column:original_created_at;not null"`
	ArchivedAt        time.Time       `gorm:"column:archived_at;autoCreateTime"`
}

type ArchivedTransaction struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	OriginalID        uuid.UUID               `gorm:"column:original_id;type:uuid;not null;index"`
	SellerID          uuid.UUID               `gorm:"column:seller_id;type:uuid;not null"`
	BuyerID           *uuid.UUID              `gorm:"column:buyer_id;type:uuid"`
	Amount            decimal.Decimal         `gorm:"column:amount;type:numeric(12,2);not null"`
	Type              enums.TransactionType   `gorm:"column:type;type:text;not null"`
	PaymentMethod     enums.PaymentMethod     `gorm:"column:payment_method;type:text;not null"`
	Status            enums.TransactionStatus `gorm:"column:status;type:text;not null"`
	Description       string                  `gorm:"column:description;not null"`
	OrderID           *string                 `gorm:"column:order_id"`
	WithdrawalID      *uuid.UUID              `gorm:"column:withdrawal_id;type:uuid"`
	DeletedBy         string                  `gorm:"column:deleted_by;not null"`
	OriginalCreatedAt time.Time               `gorm:"column:original_created_at;not null"`
	ArchivedAt        time.Time               `gorm:"column:archived_at;autoCreateTime"`
}

type ArchivedWithdrawal struct {
	ID                uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	OriginalID        uuid.UUID              `gorm:"column:original_id;type:uuid;not null;index"`
	UserID            uuid.UUID              `gorm:"column:user_id;type:uuid;not null"`
	Amount            decimal.Decimal        `gorm:"column:amount;type:numeric(12,2);not null"`
	PaymentMethod     enums.PaymentMethod    `gorm:"column:payment_method;type:text;not null"`
	AccountDetails    string                 `gorm:"column:account_details;not null"`
	Status            enums.WithdrawalStatus `gorm:"column:status;type:text;not null"`
	Remarks           *string                `gorm:"column:remarks"`
	ProcessedAt       *time.Time             `gorm:"column:processed_at"`
	DeletedBy         string                 `gorm:"column:deleted_by;not null"`
	OriginalCreatedAt time.Time              `gorm:"column:original_created_at;not null"`
	ArchivedAt        time.Time              `gorm:"column:archived_at;autoCreateTime"`
}

type ArchivedActivity struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	OriginalID        uuid.UUID          `gorm:"column:original_id;type:uuid;not null;index"`
	Type              enums.ActivityType `gorm:"column:type;type:text;not null"`
	Message           string             `gorm:"column:message;not null"`
	Detail            *string            `gorm:"column:detail"`
	UserID            *uuid.UUID         `gorm:"column:user_id;type:uuid"`
	Metadata          json.RawMessage    `gorm:"column:metadata;type:jsonb"`
	DeletedBy         string             `gorm:"column:deleted_by;not null"`
	OriginalCreatedAt time.Time          `gorm:"column:original_created_at;not null"`
	ArchivedAt        time.Time          `gorm:"column:archived_at;autoCreateTime"`
}

type ArchivedDispute struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OriginalID        uuid.UUID       `gorm:"column:original_id;type:uuid;not null;index"`
	OrderID           *string         `gorm:"column:order_id"`
	WithdrawalID      *uuid.UUID      `gorm:"column:withdrawal_id;type:uuid"`
	TransactionUUID   *string         `gorm:"column:transaction_uuid"`
	RaisedBy          uuid.UUID       `gorm:"column:raised_by;type:uuid;not null"`
	SellerID          *uuid.UUID      `gorm:"column:seller_id;type:uuid"`
	Reason            string          `gorm:"column:reason;not null"`
	Description       *string         `gorm:"column:description"`
	Status            string          `gorm:"column:status;not null"`
	Resolution        json.RawMessage `gorm:"column:resolution;type:jsonb"`
	DeletedBy         string          `gorm:"column:deleted_by;not null"`
	OriginalCreatedAt time.Time       `gorm:"column:original_created_at;not null"`
	ArchivedAt        time.Time       `gorm:"column:archived_at;autoCreateTime"`
}

type ArchivedOTP struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OriginalID        uuid.UUID `gorm:"column:original_id;type:uuid;not null;index"`
	Email             string    `gorm:"column:email;not null"`
	CodeHash          string    `gorm:"column:code_hash;not null"`
	ExpiresAt         time.Time `gorm:"column:expires_at;not null"`
	DeletedBy         string    `gorm:"column:deleted_by;not null"`
	OriginalCreatedAt time.Time `gorm:"column:original_created_at;not null"`
	ArchivedAt        time.Time `gorm:"column:archived_at;autoCreateTime"`
}

func (ArchivedOTP) TableName() string { return "archived_otps" }
