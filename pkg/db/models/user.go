package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	Email        string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	Phone        *string    `gorm:"column:phone"`
	Address      *string    `gorm:"column:address"`
	Role         enums.Role `gorm:"column:role;type:text;not null"`
	Status       string     `gorm:"column:status;not null;default:'active'"`
	DocStatus    string     `gorm:"column:doc_status;not null;default:'pending'"`
	ProfileImage *string    `gorm:"column:profile_image"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
