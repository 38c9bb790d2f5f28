package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
	"github.com/agrimart-np/agrimart-backend/pkg/logger"
	"github.com/agrimart-np/agrimart-backend/pkg/realtime"
)

// Entry is a single audit event to append.
type Entry struct {
	Type     enums.ActivityType
	Message  string
	Detail   string
	UserID   *uuid.UUID
	Metadata map[string]any
}

// Service appends audit entries. Logging must never fail the caller: errors
// are logged at warn and swallowed.
type Service interface {
	Log(ctx context.Context, entry Entry)
	Recent(ctx context.Context, limit int) ([]models.Activity, error)
}

type service struct {
	repo     Repository
	notifier realtime.Notifier
	logg     *logger.Logger
}

// NewService builds the activity service with the required dependencies.
func NewService(repo Repository, notifier realtime.Notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("activity repository required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, notifier: notifier, logg: logg}, nil
}

func (s *service) Log(ctx context.Context, entry Entry) {
	if !entry.Type.IsValid() {
		s.logg.Warn(ctx, fmt.Sprintf("dropping activity with unknown type %q", entry.Type))
		return
	}

	record := &models.Activity{
		Type:    entry.Type,
		Message: entry.Message,
		UserID:  entry.UserID,
	}
	if entry.Detail != "" {
		detail := entry.Detail
		record.Detail = &detail
	}
	if len(entry.Metadata) > 0 {
		payload, err := json.Marshal(entry.Metadata)
		if err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("marshaling activity metadata: %v", err))
		} else {
			record.Metadata = payload
		}
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("recording activity %s: %v", entry.Type, err))
		return
	}

	s.notifier.EmitToRole(ctx, enums.RoleAdmin, realtime.Event{
		Name: "dashboard:update",
		Data: map[string]any{
			"activity": entry.Type.String(),
			"message":  entry.Message,
		},
	})
}

func (s *service) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.Recent(ctx, limit)
}
