package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

// Activity is an append-only audit log entry. Rows are never mutated or
// deleted except through the archival cascade.
type Activity struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Type      enums.ActivityType `gorm:"column:type;type:text;not null;index"`
	Message   string             `gorm:"column:message;not null"`
	Detail    *string            `gorm:"column:detail"`
	UserID    *uuid.UUID         `gorm:"column:user_id;type:uuid;index"`
	Metadata  json.RawMessage    `gorm:"column:metadata;type:jsonb"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}
