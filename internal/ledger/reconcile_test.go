package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

func codOrder(n int, status enums.OrderStatus, payStatus enums.PaymentStatus) models.Order {
	return models.Order{
		ID:            uuid.New(),
		OrderID:       fmt.Sprintf("AGRM-%04d", n),
		BuyerID:       uuid.New(),
		SellerID:      uuid.New(),
		TotalAmount:   decimal.NewFromInt(int64(100 * n)),
		Status:        status,
		PaymentStatus: payStatus,
		PaymentMethod: enums.PaymentMethodCOD,
		CreatedAt:     time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Hour),
	}
}

func txnFor(order models.Order, status enums.TransactionStatus) models.Transaction {
	orderID := order.OrderID
	return models.Transaction{
		ID:            uuid.New(),
		SellerID:      order.SellerID,
		BuyerID:       &order.BuyerID,
		Amount:        order.TotalAmount,
		Type:          enums.TransactionTypeCredit,
		PaymentMethod: order.PaymentMethod,
		Status:        status,
		OrderID:       &orderID,
		CreatedAt:     order.CreatedAt.Add(time.Minute),
	}
}

func TestReconcileSynthesizesUncoveredOrders(t *testing.T) {
	// Five live orders, two with persisted rows: the view must still show all
	// five, three of them synthetic.
	var orders []models.Order
	for n := 1; n <= 5; n++ {
		orders = append(orders, codOrder(n, enums.OrderStatusDelivered, enums.PaymentStatusPending))
	}
	txns := []models.Transaction{
		txnFor(orders[0], enums.TransactionStatusPending),
		txnFor(orders[1], enums.TransactionStatusCompleted),
	}

	entries := Reconcile(orders, txns)
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}

	synthetic := 0
	for _, e := range entries {
		if e.IsSynthetic {
			synthetic++
			if e.TransactionID != nil {
				t.Fatal("synthetic entries must not carry a transaction id")
			}
		} else if e.TransactionID == nil {
			t.Fatal("persisted entries must carry a transaction id")
		}
	}
	if synthetic != 3 {
		t.Fatalf("expected 3 synthetic entries, got %d", synthetic)
	}
}

func TestReconcilePersistedRowWinsOverSynthesis(t *testing.T) {
	order := codOrder(1, enums.OrderStatusDelivered, enums.PaymentStatusPending)
	txn := txnFor(order, enums.TransactionStatusCompleted)

	entries := Reconcile([]models.Order{order}, []models.Transaction{txn})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].IsSynthetic {
		t.Fatal("order with a persisted row must not be synthesized")
	}
	if entries[0].Status != enums.TransactionStatusCompleted {
		t.Fatalf("expected persisted status, got %s", entries[0].Status)
	}
}

func TestReconcileDropsCanceledAndRejected(t *testing.T) {
	live := codOrder(1, enums.OrderStatusDelivered, enums.PaymentStatusPending)
	canceled := codOrder(2, enums.OrderStatusCanceled, enums.PaymentStatusPending)
	rejected := codOrder(3, enums.OrderStatusRejected, enums.PaymentStatusPending)
	// A stale row for the canceled order must be suppressed too.
	staleTxn := txnFor(canceled, enums.TransactionStatusPending)

	entries := Reconcile([]models.Order{live, canceled, rejected}, []models.Transaction{staleTxn})
	if len(entries) != 1 {
		t.Fatalf("expected only the live order, got %d entries", len(entries))
	}
	if *entries[0].OrderID != live.OrderID {
		t.Fatalf("unexpected entry for %s", *entries[0].OrderID)
	}
}

func TestReconcileSyntheticStatusTracksPayment(t *testing.T) {
	unpaid := codOrder(1, enums.OrderStatusDelivered, enums.PaymentStatusPending)
	paid := codOrder(2, enums.OrderStatusDelivered, enums.PaymentStatusPaid)

	entries := Reconcile([]models.Order{unpaid, paid}, nil)
	byOrder := map[string]Entry{}
	for _, e := range entries {
		byOrder[*e.OrderID] = e
	}
	if byOrder[unpaid.OrderID].Status != enums.TransactionStatusPending {
		t.Fatalf("unpaid order should synthesize Pending, got %s", byOrder[unpaid.OrderID].Status)
	}
	if byOrder[paid.OrderID].Status != enums.TransactionStatusCompleted {
		t.Fatalf("paid order should synthesize Completed, got %s", byOrder[paid.OrderID].Status)
	}
}

func TestReconcileSortsNewestFirst(t *testing.T) {
	var orders []models.Order
	for n := 1; n <= 4; n++ {
		orders = append(orders, codOrder(n, enums.OrderStatusDelivered, enums.PaymentStatusPending))
	}

	entries := Reconcile(orders, nil)
	for i := 1; i < len(entries); i++ {
		if entries[i].CreatedAt.After(entries[i-1].CreatedAt) {
			t.Fatal("entries must be sorted newest first")
		}
	}
}

func TestReconcileKeepsOrderlessTransactions(t *testing.T) {
	// Withdrawal debits have no order reference and must pass through.
	debit := models.Transaction{
		ID:            uuid.New(),
		SellerID:      uuid.New(),
		Amount:        decimal.NewFromInt(500),
		Type:          enums.TransactionTypeDebit,
		PaymentMethod: enums.PaymentMethodBankTransfer,
		Status:        enums.TransactionStatusPending,
		CreatedAt:     time.Now(),
	}

	entries := Reconcile(nil, []models.Transaction{debit})
	if len(entries) != 1 || entries[0].Type != enums.TransactionTypeDebit {
		t.Fatalf("expected the orderless debit to survive, got %+v", entries)
	}
}
