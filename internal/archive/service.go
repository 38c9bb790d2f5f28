package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrimart-np/agrimart-backend/internal/activity"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
	pkgerrors "github.com/agrimart-np/agrimart-backend/pkg/errors"
	"github.com/agrimart-np/agrimart-backend/pkg/logger"
	"github.com/agrimart-np/agrimart-backend/pkg/realtime"
)

// Summary reports what a cascade moved, keyed by entity name.
type Summary struct {
	UserID   uuid.UUID        `json:"user_id"`
	Archived map[string]int64 `json:"archived"`
}

// Service performs the account deletion cascade: every dependent record is
// copied to its shadow table and removed, then the user row itself. Dependent
// steps are best effort, the cascade keeps going past individual failures and
// can be re-run; only the user snapshot and the final user delete abort it.
type Service interface {
	DeleteUser(ctx context.Context, userID uuid.UUID, deletedBy string, reason *string) (*Summary, error)
}

type service struct {
	repo     Repository
	activity activity.Service
	notifier realtime.Notifier
	logg     *logger.Logger
}

func NewService(repo Repository, activitySvc activity.Service, notifier realtime.Notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("archive repository required")
	}
	if activitySvc == nil {
		return nil, fmt.Errorf("activity service required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, activity: activitySvc, notifier: notifier, logg: logg}, nil
}

func (s *service) DeleteUser(ctx context.Context, userID uuid.UUID, deletedBy string, reason *string) (*Summary, error) {
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	// The snapshot is the one step that must not fail: without it the
	// cascade would destroy the only copy of the identity.
	if err := s.repo.ArchiveUserSnapshot(ctx, user, deletedBy, reason); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "archiving user snapshot")
	}

	summary := &Summary{UserID: userID, Archived: map[string]int64{"user": 1}}

	s.step(ctx, summary, "profile", func() (int64, error) {
		return s.repo.ArchiveProfile(ctx, userID, user.Role, deletedBy)
	})
	switch user.Role {
	case enums.RoleFarmer:
		s.step(ctx, summary, "products", func() (int64, error) {
			return s.repo.ArchiveProducts(ctx, userID, deletedBy)
		})
	case enums.RoleCollector, enums.RoleSupplier:
		s.step(ctx, summary, "inventory_items", func() (int64, error) {
			return s.repo.ArchiveInventoryItems(ctx, userID, deletedBy)
		})
	}
	s.step(ctx, summary, "orders", func() (int64, error) {
		return s.repo.ArchiveOrders(ctx, userID, deletedBy)
	})
	s.step(ctx, summary, "wallet", func() (int64, error) {
		return s.repo.ArchiveWallet(ctx, userID, deletedBy)
	})
	s.step(ctx, summary, "transactions", func() (int64, error) {
		return s.repo.ArchiveTransactions(ctx, userID, deletedBy)
	})
	s.step(ctx, summary, "withdrawals", func() (int64, error) {
		return s.repo.ArchiveWithdrawals(ctx, userID, deletedBy)
	})
	s.step(ctx, summary, "activities", func() (int64, error) {
		return s.repo.ArchiveActivities(ctx, userID, deletedBy)
	})
	s.step(ctx, summary, "disputes", func() (int64, error) {
		return s.repo.ArchiveDisputes(ctx, userID, deletedBy)
	})
	s.step(ctx, summary, "otps", func() (int64, error) {
		return s.repo.ArchiveOTPs(ctx, user.Email, deletedBy)
	})

	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting user")
	}

	s.activity.Log(ctx, activity.Entry{
		Type:    enums.ActivityUserDelete,
		Message: fmt.Sprintf("User %s deleted and archived", user.Email),
		UserID:  &userID,
		Metadata: map[string]any{
			"deleted_by": deletedBy,
			"archived":   summary.Archived,
		},
	})
	s.notifier.Broadcast(ctx, realtime.Event{
		Name: "user:deleted",
		Data: map[string]any{"user_id": userID.String()},
	})
	return summary, nil
}

// step runs one best-effort cascade stage, logging failures instead of
// aborting. A re-run of the cascade picks up whatever a failed stage left
// behind.
func (s *service) step(ctx context.Context, summary *Summary, name string, fn func() (int64, error)) {
	n, err := fn()
	if err != nil {
		s.logg.Error(ctx, fmt.Sprintf("archive step %s failed, continuing cascade", name), err)
		return
	}
	summary.Archived[name] = n
}
