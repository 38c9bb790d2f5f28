package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

// Transaction is a wallet ledger row. Rows are written once; only status
// moves afterwards (Locked to Completed on delivery, Pending to Completed on
// cash confirmation).
type Transaction struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	SellerID      uuid.UUID               `gorm:"column:seller_id;type:uuid;not null;index"`
	BuyerID       *uuid.UUID              `gorm:"column:buyer_id;type:uuid"`
	Amount        decimal.Decimal         `gorm:"column:amount;type:numeric(12,2);not null"`
	Type          enums.TransactionType   `gorm:"column:type;type:text;not null"`
	PaymentMethod enums.PaymentMethod     `gorm:"column:payment_method;type:text;not null"`
	Status        enums.TransactionStatus `gorm:"column:status;type:text;not null"`
	Description   string                  `gorm:"column:description;not null"`
	OrderID       *string                 `gorm:"column:order_id;index"`
	WithdrawalID  *uuid.UUID              `gorm:"column:withdrawal_id;type:uuid;index"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
