package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrimart-np/agrimart-backend/internal/activity"
	"github.com/agrimart-np/agrimart-backend/internal/ledger"
	"github.com/agrimart-np/agrimart-backend/pkg/db"
	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
	pkgerrors "github.com/agrimart-np/agrimart-backend/pkg/errors"
	"github.com/agrimart-np/agrimart-backend/pkg/logger"
	"github.com/agrimart-np/agrimart-backend/pkg/realtime"
)

// guardedRetries bounds optimistic-concurrency retries before giving up.
const guardedRetries = 3

// ledgerReader supplies the reconciled views the wallet overview embeds.
type ledgerReader interface {
	OnlineForSeller(ctx context.Context, sellerID uuid.UUID) ([]ledger.Entry, error)
	CODForSeller(ctx context.Context, sellerID uuid.UUID) ([]ledger.Entry, error)
}

// withdrawalLister supplies the seller's recent payout requests.
type withdrawalLister interface {
	RecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Withdrawal, error)
}

// Overview is the wallet resource returned to sellers: live balances plus the
// reconciled ledger views.
type Overview struct {
	Wallet             *models.Wallet      `json:"wallet"`
	OnlineTransactions []ledger.Entry      `json:"online_transactions"`
	CODLedger          []ledger.Entry      `json:"cod_ledger"`
	Withdrawals        []models.Withdrawal `json:"withdrawals"`
}

// Service owns every balance mutation. Lock/release/reverse run inside the
// caller's transaction so an order transition and its wallet effect commit
// together.
type Service interface {
	EnsureWallet(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*models.Wallet, error)
	LockEarnings(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error
	ReleaseToAvailable(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error
	ReverseLock(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error
	DebitAvailable(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error
	SetFrozen(ctx context.Context, userID uuid.UUID, frozen bool, actorID uuid.UUID) (*models.Wallet, error)
	Overview(ctx context.Context, userID uuid.UUID, role enums.Role) (*Overview, error)
}

type service struct {
	repo        Repository
	ledger      ledgerReader
	withdrawals withdrawalLister
	activity    activity.Service
	notifier    realtime.Notifier
	logg        *logger.Logger
}

// NewService builds the wallet service with the required dependencies.
func NewService(
	repo Repository,
	ledgerView ledgerReader,
	withdrawals withdrawalLister,
	activitySvc activity.Service,
	notifier realtime.Notifier,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if ledgerView == nil {
		return nil, fmt.Errorf("ledger reader required")
	}
	if withdrawals == nil {
		return nil, fmt.Errorf("withdrawal lister required")
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
	return &service{
		repo:        repo,
		ledger:      ledgerView,
		withdrawals: withdrawals,
		activity:    activitySvc,
		notifier:    notifier,
		logg:        logg,
	}, nil
}

// EnsureWallet lazily creates the wallet on first access. A concurrent create
// racing on the user_id unique index is read back as success.
func (s *service) EnsureWallet(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*models.Wallet, error) {
	repo := s.repo.WithTx(tx)

	wallet, err := repo.FindByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading wallet")
	}

	fresh := &models.Wallet{
		ID:               uuid.New(),
		UserID:           userID,
		AvailableBalance: decimal.Zero,
		LockedBalance:    decimal.Zero,
		TotalEarnings:    decimal.Zero,
	}
	if createErr := repo.Create(ctx, fresh); createErr != nil {
		if db.IsUniqueViolation(createErr, "") {
			return repo.FindByUserID(ctx, userID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, createErr, "creating wallet")
	}
	return fresh, nil
}

// LockEarnings moves freshly earned money into the locked balance and grows
// total earnings. Total earnings never shrink, not even when the lock is
// later reversed.
func (s *service) LockEarnings(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() || amount.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "lock amount must be positive")
	}
	return s.mutate(ctx, tx, userID, func(w *models.Wallet) {
		w.LockedBalance = w.LockedBalance.Add(amount)
		w.TotalEarnings = w.TotalEarnings.Add(amount)
	})
}

// ReleaseToAvailable settles a delivery: locked funds become withdrawable.
// A release larger than the held amount clamps to zero and logs a warning,
// keeping replayed delivery events idempotent rather than destructive.
func (s *service) ReleaseToAvailable(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() || amount.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "release amount must be positive")
	}
	return s.mutate(ctx, tx, userID, func(w *models.Wallet) {
		release := amount
		if release.GreaterThan(w.LockedBalance) {
			s.logg.Warn(ctx, fmt.Sprintf(
				"wallet %s: clamping release of %s to locked balance %s, likely replayed delivery event",
				w.ID, amount, w.LockedBalance))
			release = w.LockedBalance
		}
		w.LockedBalance = w.LockedBalance.Sub(release)
		w.AvailableBalance = w.AvailableBalance.Add(amount)
	})
}

// ReverseLock undoes a lock when an accepted order dies before delivery.
func (s *service) ReverseLock(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() || amount.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "reverse amount must be positive")
	}
	return s.mutate(ctx, tx, userID, func(w *models.Wallet) {
		reverse := amount
		if reverse.GreaterThan(w.LockedBalance) {
			s.logg.Warn(ctx, fmt.Sprintf(
				"wallet %s: clamping reversal of %s to locked balance %s, likely replayed cancellation event",
				w.ID, amount, w.LockedBalance))
			reverse = w.LockedBalance
		}
		w.LockedBalance = w.LockedBalance.Sub(reverse)
	})
}

// DebitAvailable withdraws from the available balance, failing when funds are
// short. The guard lives in a single UPDATE statement.
func (s *service) DebitAvailable(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() || amount.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "debit amount must be positive")
	}
	repo := s.repo.WithTx(tx)

	ok, err := repo.DebitAvailable(ctx, userID, amount)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "debiting wallet")
	}
	if ok {
		return nil
	}

	if _, findErr := repo.FindByUserID(ctx, userID); findErr != nil {
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "loading wallet")
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "available balance is below the requested amount")
}

// SetFrozen toggles the admin freeze flag.
func (s *service) SetFrozen(ctx context.Context, userID uuid.UUID, frozen bool, actorID uuid.UUID) (*models.Wallet, error) {
	wallet, err := s.EnsureWallet(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if wallet.IsFrozen == frozen {
		return wallet, nil
	}

	if err := s.mutate(ctx, nil, userID, func(w *models.Wallet) {
		w.IsFrozen = frozen
	}); err != nil {
		return nil, err
	}
	wallet.IsFrozen = frozen

	activityType := enums.ActivityWalletActivated
	verb := "activated"
	if frozen {
		activityType = enums.ActivityWalletFrozen
		verb = "frozen"
	}
	s.activity.Log(ctx, activity.Entry{
		Type:    activityType,
		Message: fmt.Sprintf("wallet for user %s %s by admin", userID, verb),
		UserID:  &actorID,
		Metadata: map[string]any{
			"wallet_user_id": userID.String(),
			"is_frozen":      frozen,
		},
	})
	s.notifier.EmitToUser(ctx, userID.String(), realtime.Event{
		Name: "wallet:update",
		Data: map[string]any{"is_frozen": frozen},
	})
	return wallet, nil
}

// Overview assembles the seller-facing wallet resource.
func (s *service) Overview(ctx context.Context, userID uuid.UUID, role enums.Role) (*Overview, error) {
	if !role.IsSeller() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only sellers have wallets")
	}

	wallet, err := s.EnsureWallet(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	online, err := s.ledger.OnlineForSeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	cod, err := s.ledger.CODForSeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	withdrawals, err := s.withdrawals.RecentForUser(ctx, userID, 20)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing withdrawals")
	}

	return &Overview{
		Wallet:             wallet,
		OnlineTransactions: online,
		CODLedger:          cod,
		Withdrawals:        withdrawals,
	}, nil
}

// mutate runs a read-modify-write under the version guard, retrying a few
// times when another writer wins the race.
func (s *service) mutate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, apply func(*models.Wallet)) error {
	repo := s.repo.WithTx(tx)

	for attempt := 0; attempt < guardedRetries; attempt++ {
		wallet, err := s.EnsureWallet(ctx, tx, userID)
		if err != nil {
			return err
		}

		expected := wallet.Version
		apply(wallet)

		ok, err := repo.UpdateGuarded(ctx, wallet, expected)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating wallet")
		}
		if ok {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "wallet update contention, retry")
}
