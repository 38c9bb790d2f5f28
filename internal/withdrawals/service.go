package withdrawals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrimart-np/agrimart-backend/internal/activity"
	"github.com/agrimart-np/agrimart-backend/internal/ledger"
	"github.com/agrimart-np/agrimart-backend/internal/wallet"
	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
	pkgerrors "github.com/agrimart-np/agrimart-backend/pkg/errors"
	"github.com/agrimart-np/agrimart-backend/pkg/logger"
	"github.com/agrimart-np/agrimart-backend/pkg/realtime"
)

// statusEdges is the admin workflow. The wallet debit fires exactly once, on
// the Pending to Verified edge. Rejection is only possible before the debit.
var statusEdges = map[enums.WithdrawalStatus][]enums.WithdrawalStatus{
	enums.WithdrawalStatusPending:  {enums.WithdrawalStatusVerified, enums.WithdrawalStatusRejected},
	enums.WithdrawalStatusVerified: {enums.WithdrawalStatusApproved, enums.WithdrawalStatusCompleted},
	enums.WithdrawalStatusApproved: {enums.WithdrawalStatusCompleted},
}

// RequestInput is a seller's payout request.
type RequestInput struct {
	UserID         uuid.UUID
	Role           enums.Role
	Amount         decimal.Decimal     `json:"amount" validate:"required"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method" validate:"required"`
	AccountDetails string              `json:"account_details" validate:"required"`
}

// txRunner runs a function inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the two-phase payout workflow.
type Service interface {
	Request(ctx context.Context, input RequestInput) (*models.Withdrawal, error)
	Process(ctx context.Context, id uuid.UUID, to enums.WithdrawalStatus, remarks *string, actorID uuid.UUID) (*models.Withdrawal, error)
	List(ctx context.Context, status *enums.WithdrawalStatus) ([]models.Withdrawal, error)
}

type service struct {
	repo      Repository
	txns      ledger.Repository
	wallet    wallet.Service
	tx        txRunner
	activity  activity.Service
	notifier  realtime.Notifier
	minAmount decimal.Decimal
	logg      *logger.Logger
}

// NewService builds the withdrawal service.
func NewService(
	repo Repository,
	txns ledger.Repository,
	walletSvc wallet.Service,
	tx txRunner,
	activitySvc activity.Service,
	notifier realtime.Notifier,
	minAmount decimal.Decimal,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("withdrawal repository required")
	}
	if txns == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if walletSvc == nil {
		return nil, fmt.Errorf("wallet service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
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
		repo:      repo,
		txns:      txns,
		wallet:    walletSvc,
		tx:        tx,
		activity:  activitySvc,
		notifier:  notifier,
		minAmount: minAmount,
		logg:      logg,
	}, nil
}

// Request records a payout request without moving money. Funds stay available
// until an admin verifies; the request only checks they exist right now.
func (s *service) Request(ctx context.Context, input RequestInput) (*models.Withdrawal, error) {
	if !input.Role.IsSeller() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only sellers can request withdrawals")
	}
	if input.Amount.LessThan(s.minAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("minimum withdrawal amount is %s", s.minAmount))
	}
	if input.PaymentMethod == enums.PaymentMethodCOD {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash on delivery is not a payout channel")
	}

	w, err := s.wallet.EnsureWallet(ctx, nil, input.UserID)
	if err != nil {
		return nil, err
	}
	if w.IsFrozen {
		return nil, pkgerrors.New(pkgerrors.CodeWalletFrozen, "wallet is frozen, contact support")
	}
	if w.AvailableBalance.LessThan(input.Amount) {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientBalance,
			"available balance is below the requested amount")
	}

	withdrawal := &models.Withdrawal{
		ID:             uuid.New(),
		UserID:         input.UserID,
		Amount:         input.Amount,
		PaymentMethod:  input.PaymentMethod,
		AccountDetails: input.AccountDetails,
		Status:         enums.WithdrawalStatusPending,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, withdrawal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating withdrawal")
		}
		txn := models.Transaction{
			ID:            uuid.New(),
			SellerID:      input.UserID,
			Amount:        input.Amount,
			Type:          enums.TransactionTypeDebit,
			PaymentMethod: input.PaymentMethod,
			Status:        enums.TransactionStatusPending,
			Description:   fmt.Sprintf("Withdrawal request via %s", input.PaymentMethod),
			WithdrawalID:  &withdrawal.ID,
		}
		if err := s.txns.WithTx(tx).Create(ctx, &txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating withdrawal transaction")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, activity.Entry{
		Type:    enums.ActivityWithdrawalRequest,
		Message: fmt.Sprintf("Withdrawal of %s requested", withdrawal.Amount),
		UserID:  &withdrawal.UserID,
		Metadata: map[string]any{
			"withdrawal_id": withdrawal.ID.String(),
			"amount":        withdrawal.Amount.String(),
		},
	})
	s.notifier.EmitToRole(ctx, enums.RoleAdmin, realtime.Event{
		Name: "withdrawal:new",
		Data: withdrawal,
	})
	return withdrawal, nil
}

// Process drives an admin decision. Verification debits the wallet inside the
// same transaction that flips the status, so a crash cannot debit twice or
// verify without debiting.
func (s *service) Process(ctx context.Context, id uuid.UUID, to enums.WithdrawalStatus, remarks *string, actorID uuid.UUID) (*models.Withdrawal, error) {
	var updated *models.Withdrawal
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		withdrawal, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "withdrawal not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading withdrawal")
		}
		if !edgeAllowed(withdrawal.Status, to) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move withdrawal from %s to %s", withdrawal.Status, to))
		}

		if to == enums.WithdrawalStatusVerified {
			if err := s.wallet.DebitAvailable(ctx, tx, withdrawal.UserID, withdrawal.Amount); err != nil {
				return err
			}
		}

		withdrawal.Status = to
		withdrawal.Remarks = remarks
		if to.IsFinal() {
			now := time.Now().UTC()
			withdrawal.ProcessedAt = &now
		}
		if err := repo.Update(ctx, withdrawal); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving withdrawal")
		}
		if err := s.syncTransaction(ctx, tx, withdrawal); err != nil {
			return err
		}
		updated = withdrawal
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, activity.Entry{
		Type:    enums.ActivityTypeForWithdrawalStatus(updated.Status),
		Message: fmt.Sprintf("Withdrawal of %s is now %s", updated.Amount, updated.Status),
		UserID:  &actorID,
		Metadata: map[string]any{
			"withdrawal_id": updated.ID.String(),
			"status":        string(updated.Status),
		},
	})
	s.notifier.EmitToUser(ctx, updated.UserID.String(), realtime.Event{
		Name: "withdrawal:update",
		Data: updated,
	})
	return updated, nil
}

// syncTransaction keeps the linked ledger row on the same status axis as the
// withdrawal itself.
func (s *service) syncTransaction(ctx context.Context, tx *gorm.DB, withdrawal *models.Withdrawal) error {
	txns := s.txns.WithTx(tx)
	txn, err := txns.FindByWithdrawalID(ctx, withdrawal.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(ctx, fmt.Sprintf("withdrawal %s has no linked transaction", withdrawal.ID))
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading withdrawal transaction")
	}

	switch withdrawal.Status {
	case enums.WithdrawalStatusVerified:
		txn.Status = enums.TransactionStatusVerified
	case enums.WithdrawalStatusCompleted:
		txn.Status = enums.TransactionStatusCompleted
	case enums.WithdrawalStatusRejected:
		txn.Status = enums.TransactionStatusRejected
	default:
		return nil
	}
	if err := txns.Update(ctx, txn); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "syncing withdrawal transaction")
	}
	return nil
}

func (s *service) List(ctx context.Context, status *enums.WithdrawalStatus) ([]models.Withdrawal, error) {
	out, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing withdrawals")
	}
	return out, nil
}

func edgeAllowed(from, to enums.WithdrawalStatus) bool {
	for _, next := range statusEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}
