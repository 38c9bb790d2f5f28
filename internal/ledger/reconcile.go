package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

// Entry is a ledger row as presented to callers. Synthetic entries are
// computed from an order on read and have no identity of their own; they must
// never be treated as persisted records.
type Entry struct {
	TransactionID *uuid.UUID              `json:"transaction_id,omitempty"`
	OrderID       *string                 `json:"order_id,omitempty"`
	SellerID      uuid.UUID               `json:"seller_id"`
	BuyerID       *uuid.UUID              `json:"buyer_id,omitempty"`
	Amount        decimal.Decimal         `json:"amount"`
	Type          enums.TransactionType   `json:"type"`
	PaymentMethod enums.PaymentMethod     `json:"payment_method"`
	Status        enums.TransactionStatus `json:"status"`
	Description   string                  `json:"description"`
	IsSynthetic   bool                    `json:"is_synthetic"`
	CreatedAt     time.Time               `json:"created_at"`
}

func entryFromTransaction(txn models.Transaction) Entry {
	id := txn.ID
	return Entry{
		TransactionID: &id,
		OrderID:       txn.OrderID,
		SellerID:      txn.SellerID,
		BuyerID:       txn.BuyerID,
		Amount:        txn.Amount,
		Type:          txn.Type,
		PaymentMethod: txn.PaymentMethod,
		Status:        txn.Status,
		Description:   txn.Description,
		CreatedAt:     txn.CreatedAt,
	}
}

func entryFromOrder(order models.Order) Entry {
	orderID := order.OrderID
	buyerID := order.BuyerID
	status := enums.TransactionStatusPending
	if order.PaymentStatus == enums.PaymentStatusPaid {
		status = enums.TransactionStatusCompleted
	}
	return Entry{
		OrderID:       &orderID,
		SellerID:      order.SellerID,
		BuyerID:       &buyerID,
		Amount:        order.TotalAmount,
		Type:          enums.TransactionTypeCredit,
		PaymentMethod: order.PaymentMethod,
		Status:        status,
		Description:   "Cash collection for order " + order.OrderID,
		IsSynthetic:   true,
		CreatedAt:     order.CreatedAt,
	}
}

// Reconcile merges persisted transactions with orders that have no matching
// row, synthesizing an entry per uncovered order. Entries whose backing order
// is canceled or rejected are dropped. The result is date-sorted descending.
//
// COD settlement truth lives in the order record; the transaction table is a
// derived cache populated once a real cash event occurs. This projection
// fills the gap on read without writing anything.
func Reconcile(orders []models.Order, txns []models.Transaction) []Entry {
	dead := map[string]bool{}
	for _, order := range orders {
		if order.Status == enums.OrderStatusCanceled || order.Status == enums.OrderStatusRejected {
			dead[order.OrderID] = true
		}
	}

	covered := map[string]bool{}
	entries := make([]Entry, 0, len(orders)+len(txns))

	for _, txn := range txns {
		if txn.OrderID != nil {
			if dead[*txn.OrderID] {
				continue
			}
			covered[*txn.OrderID] = true
		}
		entries = append(entries, entryFromTransaction(txn))
	}

	for _, order := range orders {
		if dead[order.OrderID] || covered[order.OrderID] {
			continue
		}
		entries = append(entries, entryFromOrder(order))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}
