package withdrawals

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
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

type memWithdrawalRepo struct {
	rows map[uuid.UUID]*models.Withdrawal
}

func newMemWithdrawalRepo() *memWithdrawalRepo {
	return &memWithdrawalRepo{rows: map[uuid.UUID]*models.Withdrawal{}}
}

func (m *memWithdrawalRepo) WithTx(tx *gorm.DB) Repository { return m }

func (m *memWithdrawalRepo) Create(ctx context.Context, w *models.Withdrawal) error {
	clone := *w
	m.rows[w.ID] = &clone
	return nil
}

func (m *memWithdrawalRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	w, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *w
	return &clone, nil
}

func (m *memWithdrawalRepo) Update(ctx context.Context, w *models.Withdrawal) error {
	clone := *w
	m.rows[w.ID] = &clone
	return nil
}

func (m *memWithdrawalRepo) List(ctx context.Context, status *enums.WithdrawalStatus) ([]models.Withdrawal, error) {
	var out []models.Withdrawal
	for _, w := range m.rows {
		if status == nil || w.Status == *status {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (m *memWithdrawalRepo) RecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Withdrawal, error) {
	var out []models.Withdrawal
	for _, w := range m.rows {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	return out, nil
}

type memTxnRepo struct {
	rows map[uuid.UUID]*models.Transaction
}

func newMemTxnRepo() *memTxnRepo {
	return &memTxnRepo{rows: map[uuid.UUID]*models.Transaction{}}
}

func (m *memTxnRepo) WithTx(tx *gorm.DB) ledger.Repository { return m }

func (m *memTxnRepo) Create(ctx context.Context, txn *models.Transaction) error {
	clone := *txn
	m.rows[txn.ID] = &clone
	return nil
}

func (m *memTxnRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	txn, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *txn
	return &clone, nil
}

func (m *memTxnRepo) FindCODByOrderID(ctx context.Context, orderID string) (*models.Transaction, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *memTxnRepo) FindByOrderAndSeller(ctx context.Context, orderID string, sellerID uuid.UUID) (*models.Transaction, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *memTxnRepo) FindByWithdrawalID(ctx context.Context, withdrawalID uuid.UUID) (*models.Transaction, error) {
	for _, txn := range m.rows {
		if txn.WithdrawalID != nil && *txn.WithdrawalID == withdrawalID {
			clone := *txn
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memTxnRepo) Update(ctx context.Context, txn *models.Transaction) error {
	clone := *txn
	m.rows[txn.ID] = &clone
	return nil
}

func (m *memTxnRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID, cod bool) ([]models.Transaction, error) {
	return nil, nil
}

func (m *memTxnRepo) ListByMethodClass(ctx context.Context, cod bool) ([]models.Transaction, error) {
	return nil, nil
}

// fakeWallet tracks debits and simulates balances without a database.
type fakeWallet struct {
	available decimal.Decimal
	frozen    bool
	debits    []decimal.Decimal
}

func (f *fakeWallet) EnsureWallet(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*models.Wallet, error) {
	return &models.Wallet{UserID: userID, AvailableBalance: f.available, IsFrozen: f.frozen}, nil
}

func (f *fakeWallet) LockEarnings(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	return nil
}

func (f *fakeWallet) ReleaseToAvailable(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	return nil
}

func (f *fakeWallet) ReverseLock(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	return nil
}

func (f *fakeWallet) DebitAvailable(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	if f.available.LessThan(amount) {
		return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "available balance is below the requested amount")
	}
	f.available = f.available.Sub(amount)
	f.debits = append(f.debits, amount)
	return nil
}

func (f *fakeWallet) SetFrozen(ctx context.Context, userID uuid.UUID, frozen bool, actorID uuid.UUID) (*models.Wallet, error) {
	f.frozen = frozen
	return &models.Wallet{UserID: userID, IsFrozen: frozen}, nil
}

func (f *fakeWallet) Overview(ctx context.Context, userID uuid.UUID, role enums.Role) (*wallet.Overview, error) {
	return nil, nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type stubActivity struct {
	entries []activity.Entry
}

func (s *stubActivity) Log(ctx context.Context, entry activity.Entry) {
	s.entries = append(s.entries, entry)
}

func (s *stubActivity) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	return nil, nil
}

type harness struct {
	svc    Service
	repo   *memWithdrawalRepo
	txns   *memTxnRepo
	wallet *fakeWallet
	audit  *stubActivity
}

func newHarness(t *testing.T, available int64) *harness {
	t.Helper()
	h := &harness{
		repo:   newMemWithdrawalRepo(),
		txns:   newMemTxnRepo(),
		wallet: &fakeWallet{available: decimal.NewFromInt(available)},
		audit:  &stubActivity{},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: &bytes.Buffer{}})
	svc, err := NewService(h.repo, h.txns, h.wallet, stubTx{}, h.audit, realtime.Nop(),
		decimal.NewFromInt(100), logg)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	h.svc = svc
	return h
}

func request(t *testing.T, h *harness) *models.Withdrawal {
	t.Helper()
	w, err := h.svc.Request(context.Background(), RequestInput{
		UserID:         uuid.New(),
		Role:           enums.RoleFarmer,
		Amount:         decimal.NewFromInt(500),
		PaymentMethod:  enums.PaymentMethodESewa,
		AccountDetails: "9800000001",
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return w
}

func expectCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	if appErr == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if appErr.Code() != want {
		t.Fatalf("expected %s, got %s", want, appErr.Code())
	}
}

func TestRequestLeavesBalanceUntouched(t *testing.T) {
	h := newHarness(t, 1000)
	w := request(t, h)

	if w.Status != enums.WithdrawalStatusPending {
		t.Fatalf("expected Pending, got %s", w.Status)
	}
	if len(h.wallet.debits) != 0 {
		t.Fatal("request must not debit the wallet")
	}
	txn, err := h.txns.FindByWithdrawalID(context.Background(), w.ID)
	if err != nil {
		t.Fatalf("expected a linked transaction: %v", err)
	}
	if txn.Type != enums.TransactionTypeDebit || txn.Status != enums.TransactionStatusPending {
		t.Fatalf("unexpected linked transaction %+v", txn)
	}
	if len(h.audit.entries) != 1 || h.audit.entries[0].Type != enums.ActivityWithdrawalRequest {
		t.Fatalf("expected a request audit entry, got %+v", h.audit.entries)
	}
}

func TestRequestGuards(t *testing.T) {
	t.Run("non-seller", func(t *testing.T) {
		h := newHarness(t, 1000)
		_, err := h.svc.Request(context.Background(), RequestInput{
			UserID: uuid.New(), Role: enums.RoleBuyer,
			Amount: decimal.NewFromInt(500), PaymentMethod: enums.PaymentMethodESewa,
			AccountDetails: "x",
		})
		expectCode(t, err, pkgerrors.CodeForbidden)
	})

	t.Run("below minimum", func(t *testing.T) {
		h := newHarness(t, 1000)
		_, err := h.svc.Request(context.Background(), RequestInput{
			UserID: uuid.New(), Role: enums.RoleFarmer,
			Amount: decimal.NewFromInt(50), PaymentMethod: enums.PaymentMethodESewa,
			AccountDetails: "x",
		})
		expectCode(t, err, pkgerrors.CodeValidation)
	})

	t.Run("frozen wallet", func(t *testing.T) {
		h := newHarness(t, 1000)
		h.wallet.frozen = true
		_, err := h.svc.Request(context.Background(), RequestInput{
			UserID: uuid.New(), Role: enums.RoleFarmer,
			Amount: decimal.NewFromInt(500), PaymentMethod: enums.PaymentMethodESewa,
			AccountDetails: "x",
		})
		expectCode(t, err, pkgerrors.CodeWalletFrozen)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		h := newHarness(t, 100)
		_, err := h.svc.Request(context.Background(), RequestInput{
			UserID: uuid.New(), Role: enums.RoleFarmer,
			Amount: decimal.NewFromInt(500), PaymentMethod: enums.PaymentMethodESewa,
			AccountDetails: "x",
		})
		expectCode(t, err, pkgerrors.CodeInsufficientBalance)
	})
}

func TestVerifyDebitsExactlyOnce(t *testing.T) {
	h := newHarness(t, 1000)
	w := request(t, h)
	adminID := uuid.New()

	verified, err := h.svc.Process(context.Background(), w.ID, enums.WithdrawalStatusVerified, nil, adminID)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if verified.Status != enums.WithdrawalStatusVerified {
		t.Fatalf("expected Verified, got %s", verified.Status)
	}
	if len(h.wallet.debits) != 1 || !h.wallet.debits[0].Equal(w.Amount) {
		t.Fatalf("expected one debit of %s, got %v", w.Amount, h.wallet.debits)
	}
	txn, _ := h.txns.FindByWithdrawalID(context.Background(), w.ID)
	if txn.Status != enums.TransactionStatusVerified {
		t.Fatalf("linked transaction should be Verified, got %s", txn.Status)
	}

	// Re-verifying is a state conflict, not a second debit.
	_, err = h.svc.Process(context.Background(), w.ID, enums.WithdrawalStatusVerified, nil, adminID)
	expectCode(t, err, pkgerrors.CodeStateConflict)
	if len(h.wallet.debits) != 1 {
		t.Fatalf("expected exactly one debit, got %d", len(h.wallet.debits))
	}
}

func TestVerifyFailsWhenFundsGone(t *testing.T) {
	h := newHarness(t, 1000)
	w := request(t, h)
	// Funds drained between request and verification.
	h.wallet.available = decimal.NewFromInt(10)

	_, err := h.svc.Process(context.Background(), w.ID, enums.WithdrawalStatusVerified, nil, uuid.New())
	expectCode(t, err, pkgerrors.CodeInsufficientBalance)

	current, _ := h.repo.FindByID(context.Background(), w.ID)
	if current.Status != enums.WithdrawalStatusPending {
		t.Fatalf("failed verification must leave the request Pending, got %s", current.Status)
	}
}

func TestCompleteAfterVerify(t *testing.T) {
	h := newHarness(t, 1000)
	w := request(t, h)
	adminID := uuid.New()

	if _, err := h.svc.Process(context.Background(), w.ID, enums.WithdrawalStatusVerified, nil, adminID); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	remarks := "paid via eSewa ref 881"
	completed, err := h.svc.Process(context.Background(), w.ID, enums.WithdrawalStatusCompleted, &remarks, adminID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if completed.ProcessedAt == nil {
		t.Fatal("completion must stamp processed_at")
	}
	if completed.Remarks == nil || *completed.Remarks != remarks {
		t.Fatal("remarks not recorded")
	}
	if len(h.wallet.debits) != 1 {
		t.Fatalf("completion must not debit again, got %d debits", len(h.wallet.debits))
	}
	txn, _ := h.txns.FindByWithdrawalID(context.Background(), w.ID)
	if txn.Status != enums.TransactionStatusCompleted {
		t.Fatalf("linked transaction should be Completed, got %s", txn.Status)
	}
}

func TestRejectOnlyBeforeVerification(t *testing.T) {
	h := newHarness(t, 1000)
	w := request(t, h)
	adminID := uuid.New()

	rejected, err := h.svc.Process(context.Background(), w.ID, enums.WithdrawalStatusRejected, nil, adminID)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if len(h.wallet.debits) != 0 {
		t.Fatal("rejection must not debit")
	}
	if rejected.ProcessedAt == nil {
		t.Fatal("rejection must stamp processed_at")
	}
	txn, _ := h.txns.FindByWithdrawalID(context.Background(), w.ID)
	if txn.Status != enums.TransactionStatusRejected {
		t.Fatalf("linked transaction should be Rejected, got %s", txn.Status)
	}

	// A verified withdrawal cannot be rejected, the money already moved.
	w2 := request(t, h)
	if _, err := h.svc.Process(context.Background(), w2.ID, enums.WithdrawalStatusVerified, nil, adminID); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	_, err = h.svc.Process(context.Background(), w2.ID, enums.WithdrawalStatusRejected, nil, adminID)
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestListFiltersByStatus(t *testing.T) {
	h := newHarness(t, 10000)
	w1 := request(t, h)
	request(t, h)
	if _, err := h.svc.Process(context.Background(), w1.ID, enums.WithdrawalStatusVerified, nil, uuid.New()); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	pending := enums.WithdrawalStatusPending
	out, err := h.svc.List(context.Background(), &pending)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 pending withdrawal, got %d", len(out))
	}

	all, err := h.svc.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 withdrawals, got %d", len(all))
	}
}
