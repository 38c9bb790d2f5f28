package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Dispute references an order or withdrawal under contention. There is no
// dispute workflow here; the table exists as a dependent of the archival
// cascade.
type Dispute struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID         *string         `gorm:"column:order_id;index"`
	WithdrawalID    *uuid.UUID      `gorm:"column:withdrawal_id;type:uuid"`
	TransactionUUID *string         `gorm:"column:transaction_uuid"`
	RaisedBy        uuid.UUID       `gorm:"column:raised_by;type:uuid;not null;index"`
	SellerID        *uuid.UUID      `gorm:"column:seller_id;type:uuid;index"`
	Reason          string          `gorm:"column:reason;not null"`
	Description     *string         `gorm:"column:description"`
	Status          string          `gorm:"column:status;not null;default:'open'"`
	Resolution      json.RawMessage `gorm:"column:resolution;type:jsonb"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
