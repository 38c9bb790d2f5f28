package models

import (
	"time"

	"github.com/google/uuid"
)

// OTP is a pending one-time code keyed by email. Live table only as a
// cascade target.
type OTP struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email     string    `gorm:"column:email;not null;index"`
	CodeHash  string    `gorm:"column:code_hash;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the acronym table name.
func (OTP) TableName() string { return "otps" }
