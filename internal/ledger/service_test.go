package ledger

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrimart-np/agrimart-backend/internal/activity"
	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
	apperrors "github.com/agrimart-np/agrimart-backend/pkg/errors"
	"github.com/agrimart-np/agrimart-backend/pkg/realtime"
)

type stubTxnRepo struct {
	txns map[uuid.UUID]*models.Transaction
}

func newStubTxnRepo() *stubTxnRepo {
	return &stubTxnRepo{txns: map[uuid.UUID]*models.Transaction{}}
}

func (s *stubTxnRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubTxnRepo) Create(ctx context.Context, txn *models.Transaction) error {
	clone := *txn
	s.txns[txn.ID] = &clone
	return nil
}

func (s *stubTxnRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	txn, ok := s.txns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *txn
	return &clone, nil
}

func (s *stubTxnRepo) FindCODByOrderID(ctx context.Context, orderID string) (*models.Transaction, error) {
	for _, txn := range s.txns {
		if txn.OrderID != nil && *txn.OrderID == orderID && txn.PaymentMethod == enums.PaymentMethodCOD {
			clone := *txn
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTxnRepo) FindByOrderAndSeller(ctx context.Context, orderID string, sellerID uuid.UUID) (*models.Transaction, error) {
	for _, txn := range s.txns {
		if txn.OrderID != nil && *txn.OrderID == orderID && txn.SellerID == sellerID {
			clone := *txn
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTxnRepo) FindByWithdrawalID(ctx context.Context, withdrawalID uuid.UUID) (*models.Transaction, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTxnRepo) Update(ctx context.Context, txn *models.Transaction) error {
	clone := *txn
	s.txns[txn.ID] = &clone
	return nil
}

func (s *stubTxnRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID, cod bool) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, txn := range s.txns {
		if txn.SellerID == sellerID && (txn.PaymentMethod == enums.PaymentMethodCOD) == cod {
			out = append(out, *txn)
		}
	}
	return out, nil
}

func (s *stubTxnRepo) ListByMethodClass(ctx context.Context, cod bool) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, txn := range s.txns {
		if (txn.PaymentMethod == enums.PaymentMethodCOD) == cod {
			out = append(out, *txn)
		}
	}
	return out, nil
}

type stubOrders struct {
	orders map[string]*models.Order
}

func newStubOrders() *stubOrders {
	return &stubOrders{orders: map[string]*models.Order{}}
}

func (s *stubOrders) ListByMethodClass(ctx context.Context, cod bool) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if (order.PaymentMethod == enums.PaymentMethodCOD) == cod {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubOrders) ListBySellerAndMethodClass(ctx context.Context, sellerID uuid.UUID, cod bool) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.SellerID == sellerID && (order.PaymentMethod == enums.PaymentMethodCOD) == cod {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubOrders) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

type stubAudit struct {
	entries []activity.Entry
}

func (s *stubAudit) Log(ctx context.Context, entry activity.Entry) {
	s.entries = append(s.entries, entry)
}

func (s *stubAudit) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	return nil, nil
}

func newTestService(t *testing.T) (Service, *stubTxnRepo, *stubOrders, *stubAudit) {
	t.Helper()
	repo := newStubTxnRepo()
	orders := newStubOrders()
	audit := &stubAudit{}
	svc, err := NewService(repo, orders, audit, realtime.Nop())
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, repo, orders, audit
}

func expectCode(t *testing.T, err error, want apperrors.Code) {
	t.Helper()
	appErr := apperrors.As(err)
	if appErr == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if appErr.Code() != want {
		t.Fatalf("expected %s, got %s", want, appErr.Code())
	}
}

func TestSettleCODByTransactionID(t *testing.T) {
	svc, repo, _, audit := newTestService(t)
	orderID := "AGRM-0001"
	pending := &models.Transaction{
		ID:            uuid.New(),
		SellerID:      uuid.New(),
		Amount:        decimal.NewFromInt(400),
		Type:          enums.TransactionTypeCredit,
		PaymentMethod: enums.PaymentMethodCOD,
		Status:        enums.TransactionStatusPending,
		Description:   "Cash collection for order " + orderID,
		OrderID:       &orderID,
	}
	repo.txns[pending.ID] = pending

	settled, err := svc.SettleCOD(context.Background(), pending.ID.String(), uuid.New())
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if settled.Status != enums.TransactionStatusCompleted {
		t.Fatalf("expected Completed, got %s", settled.Status)
	}
	if !strings.HasSuffix(settled.Description, verifiedMarker) {
		t.Fatalf("expected verified marker, got %q", settled.Description)
	}
	if len(audit.entries) != 1 || audit.entries[0].Type != enums.ActivityCODSettlementCompleted {
		t.Fatalf("expected a settlement audit entry, got %+v", audit.entries)
	}
}

func TestSettleCODMaterializesSyntheticRow(t *testing.T) {
	svc, repo, orders, _ := newTestService(t)
	order := codOrder(1, enums.OrderStatusDelivered, enums.PaymentStatusPending)
	orders.orders[order.OrderID] = &order

	settled, err := svc.SettleCOD(context.Background(), order.OrderID, uuid.New())
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if settled.Status != enums.TransactionStatusCompleted {
		t.Fatalf("expected Completed, got %s", settled.Status)
	}
	if settled.OrderID == nil || *settled.OrderID != order.OrderID {
		t.Fatal("materialized row must reference the order")
	}
	if len(repo.txns) != 1 {
		t.Fatalf("expected exactly one persisted row, got %d", len(repo.txns))
	}
}

func TestSettleCODRejectsOnlineTransaction(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	online := &models.Transaction{
		ID:            uuid.New(),
		SellerID:      uuid.New(),
		Amount:        decimal.NewFromInt(400),
		Type:          enums.TransactionTypeCredit,
		PaymentMethod: enums.PaymentMethodESewa,
		Status:        enums.TransactionStatusLocked,
	}
	repo.txns[online.ID] = online

	_, err := svc.SettleCOD(context.Background(), online.ID.String(), uuid.New())
	expectCode(t, err, apperrors.CodeStateConflict)
}

func TestSettleCODAlreadyCompleted(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	done := &models.Transaction{
		ID:            uuid.New(),
		SellerID:      uuid.New(),
		Amount:        decimal.NewFromInt(400),
		Type:          enums.TransactionTypeCredit,
		PaymentMethod: enums.PaymentMethodCOD,
		Status:        enums.TransactionStatusCompleted,
	}
	repo.txns[done.ID] = done

	_, err := svc.SettleCOD(context.Background(), done.ID.String(), uuid.New())
	expectCode(t, err, apperrors.CodeStateConflict)
}

func TestSettleCODUnknownReference(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.SettleCOD(context.Background(), uuid.NewString(), uuid.New())
	expectCode(t, err, apperrors.CodeNotFound)

	_, err = svc.SettleCOD(context.Background(), "AGRM-9999", uuid.New())
	expectCode(t, err, apperrors.CodeNotFound)
}

func TestSettleCODRejectsCanceledOrder(t *testing.T) {
	svc, _, orders, _ := newTestService(t)
	order := codOrder(1, enums.OrderStatusCanceled, enums.PaymentStatusPending)
	orders.orders[order.OrderID] = &order

	_, err := svc.SettleCOD(context.Background(), order.OrderID, uuid.New())
	expectCode(t, err, apperrors.CodeStateConflict)
}

func TestCODForSellerMergesPersistedAndSynthetic(t *testing.T) {
	svc, repo, orders, _ := newTestService(t)
	sellerID := uuid.New()

	covered := codOrder(1, enums.OrderStatusDelivered, enums.PaymentStatusPending)
	covered.SellerID = sellerID
	uncovered := codOrder(2, enums.OrderStatusDelivered, enums.PaymentStatusPending)
	uncovered.SellerID = sellerID
	orders.orders[covered.OrderID] = &covered
	orders.orders[uncovered.OrderID] = &uncovered

	txn := txnFor(covered, enums.TransactionStatusCompleted)
	repo.txns[txn.ID] = &txn

	entries, err := svc.CODForSeller(context.Background(), sellerID)
	if err != nil {
		t.Fatalf("CODForSeller failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	synthetic := 0
	for _, e := range entries {
		if e.IsSynthetic {
			synthetic++
		}
	}
	if synthetic != 1 {
		t.Fatalf("expected exactly one synthetic entry, got %d", synthetic)
	}
}
