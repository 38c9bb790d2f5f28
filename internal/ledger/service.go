package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrimart-np/agrimart-backend/internal/activity"
	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
	pkgerrors "github.com/agrimart-np/agrimart-backend/pkg/errors"
	"github.com/agrimart-np/agrimart-backend/pkg/realtime"
)

// verifiedMarker is appended to a transaction's description when an admin
// settles it manually.
const verifiedMarker = " (Verified by admin)"

// ordersReader supplies the order rows the reconciliation projects over.
type ordersReader interface {
	ListByMethodClass(ctx context.Context, cod bool) ([]models.Order, error)
	ListBySellerAndMethodClass(ctx context.Context, sellerID uuid.UUID, cod bool) ([]models.Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
}

// Service exposes the reconciled ledger views and admin COD settlement.
type Service interface {
	OnlineForSeller(ctx context.Context, sellerID uuid.UUID) ([]Entry, error)
	CODForSeller(ctx context.Context, sellerID uuid.UUID) ([]Entry, error)
	AllOnline(ctx context.Context) ([]Entry, error)
	AllCOD(ctx context.Context) ([]Entry, error)
	SettleCOD(ctx context.Context, reference string, actorID uuid.UUID) (*models.Transaction, error)
}

type service struct {
	repo     Repository
	orders   ordersReader
	activity activity.Service
	notifier realtime.Notifier
}

// NewService builds a ledger service with the required dependencies.
func NewService(repo Repository, orders ordersReader, activitySvc activity.Service, notifier realtime.Notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders reader required")
	}
	if activitySvc == nil {
		return nil, fmt.Errorf("activity service required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{repo: repo, orders: orders, activity: activitySvc, notifier: notifier}, nil
}

func (s *service) OnlineForSeller(ctx context.Context, sellerID uuid.UUID) ([]Entry, error) {
	return s.reconcileSeller(ctx, sellerID, false)
}

func (s *service) CODForSeller(ctx context.Context, sellerID uuid.UUID) ([]Entry, error) {
	return s.reconcileSeller(ctx, sellerID, true)
}

func (s *service) AllOnline(ctx context.Context) ([]Entry, error) {
	return s.reconcileAll(ctx, false)
}

func (s *service) AllCOD(ctx context.Context) ([]Entry, error) {
	return s.reconcileAll(ctx, true)
}

func (s *service) reconcileSeller(ctx context.Context, sellerID uuid.UUID, cod bool) ([]Entry, error) {
	orders, err := s.orders.ListBySellerAndMethodClass(ctx, sellerID, cod)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders for ledger")
	}
	txns, err := s.repo.ListBySeller(ctx, sellerID, cod)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing transactions for ledger")
	}
	return Reconcile(orders, txns), nil
}

func (s *service) reconcileAll(ctx context.Context, cod bool) ([]Entry, error) {
	orders, err := s.orders.ListByMethodClass(ctx, cod)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders for ledger")
	}
	txns, err := s.repo.ListByMethodClass(ctx, cod)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing transactions for ledger")
	}
	return Reconcile(orders, txns), nil
}

// SettleCOD completes a cash collection from the admin ledger. The reference
// is a transaction id for persisted rows, or the human-readable order id for
// synthetic ones; a synthetic settle first materializes the pending row the
// projection was standing in for.
func (s *service) SettleCOD(ctx context.Context, reference string, actorID uuid.UUID) (*models.Transaction, error) {
	txn, err := s.resolveReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if txn.PaymentMethod != enums.PaymentMethodCOD {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only cash transactions can be settled manually")
	}
	if txn.Status == enums.TransactionStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "transaction is already completed")
	}

	txn.Status = enums.TransactionStatusCompleted
	txn.Description += verifiedMarker
	if err := s.repo.Update(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "completing transaction")
	}

	s.activity.Log(ctx, activity.Entry{
		Type:    enums.ActivityCODSettlementCompleted,
		Message: fmt.Sprintf("cash settlement completed for seller %s", txn.SellerID),
		UserID:  &actorID,
		Metadata: map[string]any{
			"transaction_id": txn.ID.String(),
			"order_id":       derefOrEmpty(txn.OrderID),
		},
	})
	s.notifier.EmitToUser(ctx, txn.SellerID.String(), realtime.Event{
		Name: "transaction:update",
		Data: map[string]any{"transaction_id": txn.ID.String(), "status": txn.Status},
	})
	if txn.BuyerID != nil {
		s.notifier.EmitToUser(ctx, txn.BuyerID.String(), realtime.Event{
			Name: "transaction:update",
			Data: map[string]any{"transaction_id": txn.ID.String(), "status": txn.Status},
		})
	}
	return txn, nil
}

func (s *service) resolveReference(ctx context.Context, reference string) (*models.Transaction, error) {
	if id, err := uuid.Parse(reference); err == nil {
		txn, findErr := s.repo.FindByID(ctx, id)
		if findErr == nil {
			return txn, nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "loading transaction")
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
	}

	// Synthetic rows carry the order id instead.
	txn, err := s.repo.FindCODByOrderID(ctx, reference)
	if err == nil {
		return txn, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading transaction by order")
	}

	order, err := s.orders.FindByOrderID(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order.PaymentMethod != enums.PaymentMethodCOD {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not cash on delivery")
	}
	if order.Status == enums.OrderStatusCanceled || order.Status == enums.OrderStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is canceled")
	}

	orderID := order.OrderID
	buyerID := order.BuyerID
	txn = &models.Transaction{
		ID:            uuid.New(),
		SellerID:      order.SellerID,
		BuyerID:       &buyerID,
		Amount:        order.TotalAmount,
		Type:          enums.TransactionTypeCredit,
		PaymentMethod: enums.PaymentMethodCOD,
		Status:        enums.TransactionStatusPending,
		Description:   "Cash collection for order " + order.OrderID,
		OrderID:       &orderID,
	}
	if err := s.repo.Create(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "materializing cash transaction")
	}
	return txn, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
