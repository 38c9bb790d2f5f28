package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

// Withdrawal is a seller payout request moving through the two-phase admin
// workflow. The wallet debit happens exactly once, at verification.
type Withdrawal struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	Amount         decimal.Decimal        `gorm:"column:amount;type:numeric(12,2);not null"`
	PaymentMethod  enums.PaymentMethod    `gorm:"column:payment_method;type:text;not null"`
	AccountDetails string                 `gorm:"column:account_details;not null"`
	Status         enums.WithdrawalStatus `gorm:"column:status;type:text;not null;default:'Pending'"`
	Remarks        *string                `gorm:"column:remarks"`
	ProcessedAt    *time.Time             `gorm:"column:processed_at"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
