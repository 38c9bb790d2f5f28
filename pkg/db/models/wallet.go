package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet is a seller's ledger account. AvailableBalance is withdrawable,
// LockedBalance holds earnings for orders accepted but not yet delivered, and
// TotalEarnings only ever grows. Version guards concurrent updates.
type Wallet struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID           uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	AvailableBalance decimal.Decimal `gorm:"column:available_balance;type:numeric(12,2);not null;default:0"`
	LockedBalance    decimal.Decimal `gorm:"column:locked_balance;type:numeric(12,2);not null;default:0"`
	TotalEarnings    decimal.Decimal `gorm:"column:total_earnings;type:numeric(12,2);not null;default:0"`
	IsFrozen         bool            `gorm:"column:is_frozen;not null;default:false"`
	Version          int64           `gorm:"column:version;not null;default:0"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
