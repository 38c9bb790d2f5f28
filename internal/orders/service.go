package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrimart-np/agrimart-backend/internal/activity"
	"github.com/agrimart-np/agrimart-backend/internal/catalog"
	"github.com/agrimart-np/agrimart-backend/internal/ledger"
	"github.com/agrimart-np/agrimart-backend/internal/wallet"
	"github.com/agrimart-np/agrimart-backend/pkg/db"
	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
	apperrors "github.com/agrimart-np/agrimart-backend/pkg/errors"
	"github.com/agrimart-np/agrimart-backend/pkg/esewa"
	"github.com/agrimart-np/agrimart-backend/pkg/logger"
	"github.com/agrimart-np/agrimart-backend/pkg/realtime"
)

// amountTolerance absorbs gateway rounding when matching the paid total
// against the cart total.
var amountTolerance = decimal.NewFromInt(1)

// gateway is the slice of the eSewa client the service needs.
type gateway interface {
	BuildPaymentForm(amount, deliveryCharge decimal.Decimal, transactionUUID string) esewa.PaymentForm
	DecodeCallback(encoded string) (*esewa.Callback, error)
}

// txRunner runs a function inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives checkout, payment verification and the order status state
// machine with its wallet side effects.
type Service interface {
	InitiatePayment(ctx context.Context, input CheckoutInput) (*esewa.PaymentForm, error)
	CreateCODOrders(ctx context.Context, input CheckoutInput) ([]models.Order, error)
	VerifyPayment(ctx context.Context, input VerifyPaymentInput) ([]models.Order, error)
	ListForUser(ctx context.Context, actor Actor) ([]models.Order, error)
	Transition(ctx context.Context, id uuid.UUID, to enums.OrderStatus, actor Actor) (*models.Order, error)
	ConfirmCashPayment(ctx context.Context, id uuid.UUID, actor Actor) (*models.Order, error)
}

// Deps are the collaborators an order service needs.
type Deps struct {
	Repo           Repository
	Transactions   ledger.Repository
	Wallet         wallet.Service
	Stock          catalog.Repository
	Gateway        gateway
	Tx             txRunner
	Activity       activity.Service
	Notifier       realtime.Notifier
	DeliveryCharge decimal.Decimal
	Logger         *logger.Logger
}

type service struct {
	repo           Repository
	txns           ledger.Repository
	wallet         wallet.Service
	stock          catalog.Repository
	gateway        gateway
	tx             txRunner
	activity       activity.Service
	notifier       realtime.Notifier
	deliveryCharge decimal.Decimal
	logg           *logger.Logger
}

func NewService(deps Deps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if deps.Transactions == nil {
		return nil, fmt.Errorf("transaction repository required")
	}
	if deps.Wallet == nil {
		return nil, fmt.Errorf("wallet service required")
	}
	if deps.Stock == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if deps.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if deps.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if deps.Activity == nil {
		return nil, fmt.Errorf("activity service required")
	}
	if deps.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:           deps.Repo,
		txns:           deps.Transactions,
		wallet:         deps.Wallet,
		stock:          deps.Stock,
		gateway:        deps.Gateway,
		tx:             deps.Tx,
		activity:       deps.Activity,
		notifier:       deps.Notifier,
		deliveryCharge: deps.DeliveryCharge,
		logg:           deps.Logger,
	}, nil
}

// newTransactionUUID builds the shared reference stamped onto every order of
// a checkout. eSewa requires it to be unique per payment attempt.
func newTransactionUUID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString())
}

// newOrderNumber renders the human-facing order reference.
func newOrderNumber(seq int64) string {
	return fmt.Sprintf("AGRM-%04d", seq)
}

func (s *service) InitiatePayment(ctx context.Context, input CheckoutInput) (*esewa.PaymentForm, error) {
	groups := groupBySeller(input.Items)
	if len(groups) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "cart is empty")
	}
	delivery := s.deliveryCharge.Mul(decimal.NewFromInt(int64(len(groups))))
	form := s.gateway.BuildPaymentForm(cartTotal(input.Items), delivery, newTransactionUUID())
	return &form, nil
}

func (s *service) CreateCODOrders(ctx context.Context, input CheckoutInput) ([]models.Order, error) {
	groups := groupBySeller(input.Items)
	if len(groups) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "cart is empty")
	}
	for _, g := range groups {
		if !g.SellerRole.IsSeller() {
			return nil, apperrors.New(apperrors.CodeValidation, "cart contains a non-seller listing")
		}
	}

	txnUUID := newTransactionUUID()
	var created []models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		created, txErr = s.createOrders(ctx, tx, input.BuyerID, groups, txnUUID, enums.PaymentMethodCOD, enums.PaymentStatusPending, nil)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.announceNew(ctx, created)
	return created, nil
}

func (s *service) VerifyPayment(ctx context.Context, input VerifyPaymentInput) ([]models.Order, error) {
	cb, err := s.gateway.DecodeCallback(input.EncodedData)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid payment callback")
	}
	if !cb.IsComplete() {
		return nil, apperrors.New(apperrors.CodeStateConflict,
			fmt.Sprintf("payment not complete, gateway status %q", cb.Status))
	}

	groups := groupBySeller(input.Items)
	if len(groups) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "cart is empty")
	}
	delivery := s.deliveryCharge.Mul(decimal.NewFromInt(int64(len(groups))))
	expected := cartTotal(input.Items).Add(delivery)
	if expected.Sub(cb.TotalAmount).Abs().GreaterThan(amountTolerance) {
		return nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("paid amount %s does not match cart total %s", cb.TotalAmount, expected))
	}

	// Replayed callback: every order for this payment already exists.
	existing, err := s.repo.ListByTransactionUUID(ctx, cb.TransactionUUID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "checking for existing orders")
	}
	if len(existing) > 0 {
		s.logg.Warn(ctx, fmt.Sprintf(
			"payment callback for %s replayed, returning existing orders", cb.TransactionUUID))
		return existing, nil
	}

	var created []models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		created, txErr = s.createOrders(ctx, tx, input.BuyerID, groups, cb.TransactionUUID, enums.PaymentMethodESewa, enums.PaymentStatusPaid, &cb.TransactionCode)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	s.announceNew(ctx, created)
	return s.repo.ListByTransactionUUID(ctx, cb.TransactionUUID)
}

// isDuplicateSettlement matches only the (transaction_uuid, seller_id) guard.
// Postgres reports the index name, SQLite the column list.
func isDuplicateSettlement(err error) bool {
	return db.IsUniqueViolation(err, "idx_orders_txn_seller") ||
		db.IsUniqueViolation(err, "orders.transaction_uuid")
}

// isOrderNumberCollision matches the unique index on order_id. Reachable when
// two checkouts read the same order count, or when archival deletes shrink the
// count below the highest issued number.
func isOrderNumberCollision(err error) bool {
	return db.IsUniqueViolation(err, "idx_orders_order_id") ||
		db.IsUniqueViolation(err, "orders.order_id")
}

// orderNumberAttempts bounds how far createOrders walks past taken numbers.
const orderNumberAttempts = 25

// createOrders writes one order per seller group and decrements stock. A
// unique violation on (transaction_uuid, seller_id) means a concurrent
// request already settled this group, so it is skipped; a collision on
// order_id only means the number was taken, so the sequence advances and the
// insert retries.
func (s *service) createOrders(
	ctx context.Context,
	tx *gorm.DB,
	buyerID uuid.UUID,
	groups []sellerGroup,
	txnUUID string,
	method enums.PaymentMethod,
	payStatus enums.PaymentStatus,
	txnCode *string,
) ([]models.Order, error) {
	repo := s.repo.WithTx(tx)
	stock := s.stock.WithTx(tx)

	nextSeq, err := repo.Count(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "counting orders")
	}

	out := make([]models.Order, 0, len(groups))
	for _, g := range groups {
		nextSeq++
		order := models.Order{
			ID:              uuid.New(),
			BuyerID:         buyerID,
			SellerID:        g.SellerID,
			SellerRole:      g.SellerRole,
			Products:        g.Products,
			TotalAmount:     g.Total,
			DeliveryCharge:  s.deliveryCharge,
			Status:          enums.OrderStatusPending,
			PaymentStatus:   payStatus,
			PaymentMethod:   method,
			TransactionUUID: txnUUID,
			TransactionCode: txnCode,
		}
		var createErr error
		for attempt := 0; attempt < orderNumberAttempts; attempt++ {
			order.OrderID = newOrderNumber(nextSeq)
			createErr = repo.Create(ctx, &order)
			if createErr == nil || !isOrderNumberCollision(createErr) {
				break
			}
			nextSeq++
		}
		if createErr != nil {
			if isDuplicateSettlement(createErr) {
				s.logg.Warn(ctx, fmt.Sprintf(
					"duplicate settlement for %s seller %s blocked by unique guard", txnUUID, g.SellerID))
				continue
			}
			return nil, apperrors.Wrap(apperrors.CodeInternal, createErr, "creating order")
		}
		for _, p := range order.Products {
			if err := stock.Decrement(ctx, g.SellerRole, p.ProductID, p.Quantity); err != nil {
				if errors.Is(err, catalog.ErrInsufficientStock) {
					return nil, apperrors.New(apperrors.CodeStateConflict,
						fmt.Sprintf("insufficient stock for %s", p.Name))
				}
				return nil, apperrors.Wrap(apperrors.CodeInternal, err, "decrementing stock")
			}
		}
		out = append(out, order)
	}
	return out, nil
}

func (s *service) announceNew(ctx context.Context, created []models.Order) {
	for i := range created {
		order := created[i]
		s.notifier.EmitToUser(ctx, order.SellerID.String(), realtime.Event{Name: "order:new", Data: order})
		// The buyer hears it too, so their other open tabs pick up the order.
		s.notifier.EmitToUser(ctx, order.BuyerID.String(), realtime.Event{Name: "order:new", Data: order})
		s.activity.Log(ctx, activity.Entry{
			Type:    enums.ActivityOrderPlaced,
			Message: fmt.Sprintf("Order %s placed", order.OrderID),
			Detail:  fmt.Sprintf("%s via %s", order.GrandTotal(), order.PaymentMethod),
			UserID:  &order.BuyerID,
			Metadata: map[string]any{
				"order_id":  order.OrderID,
				"seller_id": order.SellerID.String(),
			},
		})
	}
	if len(created) > 0 {
		s.notifier.EmitToRole(ctx, enums.RoleAdmin, realtime.Event{Name: "dashboard:update"})
	}
}

func (s *service) ListForUser(ctx context.Context, actor Actor) ([]models.Order, error) {
	switch {
	case actor.Role == enums.RoleBuyer:
		orders, err := s.repo.ListForBuyer(ctx, actor.ID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing buyer orders")
		}
		return orders, nil
	case actor.Role.IsSeller():
		orders, err := s.repo.ListForSeller(ctx, actor.ID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing seller orders")
		}
		return orders, nil
	default:
		return nil, apperrors.New(apperrors.CodeForbidden, "role has no order listing")
	}
}

func (s *service) Transition(ctx context.Context, id uuid.UUID, to enums.OrderStatus, actor Actor) (*models.Order, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.CodeNotFound, "order not found")
			}
			return apperrors.Wrap(apperrors.CodeInternal, err, "loading order")
		}
		if err := validateTransition(order, to, actor); err != nil {
			return err
		}

		from := order.Status
		order.Status = to
		if err := s.applySettlement(ctx, tx, order, from, to); err != nil {
			return err
		}
		if err := repo.Update(ctx, order); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "saving order")
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.announceTransition(ctx, updated, actor)
	return updated, nil
}

// applySettlement runs the wallet and ledger side effects of a status change
// inside the same transaction as the status write.
func (s *service) applySettlement(ctx context.Context, tx *gorm.DB, order *models.Order, from, to enums.OrderStatus) error {
	txns := s.txns.WithTx(tx)

	switch to {
	case enums.OrderStatusAccepted:
		if !order.PaymentMethod.IsOnline() {
			return nil
		}
		if err := s.wallet.LockEarnings(ctx, tx, order.SellerID, order.TotalAmount); err != nil {
			return err
		}
		txn := models.Transaction{
			ID:            uuid.New(),
			SellerID:      order.SellerID,
			BuyerID:       &order.BuyerID,
			Amount:        order.TotalAmount,
			Type:          enums.TransactionTypeCredit,
			PaymentMethod: order.PaymentMethod,
			Status:        enums.TransactionStatusLocked,
			Description:   fmt.Sprintf("Earnings locked for order %s", order.OrderID),
			OrderID:       &order.OrderID,
		}
		if err := txns.Create(ctx, &txn); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "creating locked earnings transaction")
		}

	case enums.OrderStatusDelivered:
		if order.PaymentMethod.IsOnline() {
			if err := s.wallet.ReleaseToAvailable(ctx, tx, order.SellerID, order.TotalAmount); err != nil {
				return err
			}
			return s.completeLockedTransaction(ctx, txns, order)
		}
		// COD delivery: make sure a pending cash collection row exists so the
		// ledger stops synthesizing one.
		return s.ensureCODTransaction(ctx, txns, order, enums.TransactionStatusPending)

	case enums.OrderStatusCanceled, enums.OrderStatusRejected:
		if from == enums.OrderStatusAccepted && order.PaymentMethod.IsOnline() {
			if err := s.wallet.ReverseLock(ctx, tx, order.SellerID, order.TotalAmount); err != nil {
				return err
			}
			if err := s.rejectLockedTransaction(ctx, txns, order); err != nil {
				return err
			}
		}
		return s.restock(ctx, tx, order)
	}
	return nil
}

func (s *service) completeLockedTransaction(ctx context.Context, txns ledger.Repository, order *models.Order) error {
	txn, err := txns.FindByOrderAndSeller(ctx, order.OrderID, order.SellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(ctx, fmt.Sprintf(
				"no locked transaction to complete on delivery of %s", order.OrderID))
			return nil
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading locked transaction")
	}
	txn.Status = enums.TransactionStatusCompleted
	txn.Description = fmt.Sprintf("Earnings released for order %s", order.OrderID)
	if err := txns.Update(ctx, txn); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "completing earnings transaction")
	}
	return nil
}

func (s *service) rejectLockedTransaction(ctx context.Context, txns ledger.Repository, order *models.Order) error {
	txn, err := txns.FindByOrderAndSeller(ctx, order.OrderID, order.SellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(ctx, fmt.Sprintf("no locked transaction to reject for %s", order.OrderID))
			return nil
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading locked transaction")
	}
	txn.Status = enums.TransactionStatusRejected
	if err := txns.Update(ctx, txn); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "rejecting earnings transaction")
	}
	return nil
}

// ensureCODTransaction materializes the cash collection row for a COD order
// if one does not exist yet, in the given status.
func (s *service) ensureCODTransaction(ctx context.Context, txns ledger.Repository, order *models.Order, status enums.TransactionStatus) error {
	txn, err := txns.FindCODByOrderID(ctx, order.OrderID)
	if err == nil {
		if txn.Status == status {
			return nil
		}
		txn.Status = status
		if err := txns.Update(ctx, txn); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "updating cash collection transaction")
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading cash collection transaction")
	}

	created := models.Transaction{
		ID:            uuid.New(),
		SellerID:      order.SellerID,
		BuyerID:       &order.BuyerID,
		Amount:        order.TotalAmount,
		Type:          enums.TransactionTypeCredit,
		PaymentMethod: enums.PaymentMethodCOD,
		Status:        status,
		Description:   fmt.Sprintf("Cash collection for order %s", order.OrderID),
		OrderID:       &order.OrderID,
	}
	if err := txns.Create(ctx, &created); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "creating cash collection transaction")
	}
	return nil
}

func (s *service) restock(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if order.IsStocked {
		return nil
	}
	stock := s.stock.WithTx(tx)
	for _, p := range order.Products {
		if err := stock.Restock(ctx, order.SellerRole, p.ProductID, p.Quantity); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "restocking item")
		}
	}
	order.IsStocked = true
	return nil
}

func (s *service) announceTransition(ctx context.Context, order *models.Order, actor Actor) {
	s.notifier.EmitToUser(ctx, order.BuyerID.String(), realtime.Event{Name: "order:update", Data: order})
	s.notifier.EmitToUser(ctx, order.SellerID.String(), realtime.Event{Name: "order:update", Data: order})
	s.notifier.EmitToRole(ctx, enums.RoleAdmin, realtime.Event{Name: "dashboard:update"})

	actorID := actor.ID
	s.activity.Log(ctx, activity.Entry{
		Type:    enums.ActivityTypeForOrderStatus(order.Status),
		Message: fmt.Sprintf("Order %s is now %s", order.OrderID, order.Status),
		UserID:  &actorID,
		Metadata: map[string]any{
			"order_id": order.OrderID,
			"status":   string(order.Status),
		},
	})
	if order.IsStocked && (order.Status == enums.OrderStatusCanceled || order.Status == enums.OrderStatusRejected) {
		s.activity.Log(ctx, activity.Entry{
			Type:    enums.ActivityInventoryStocked,
			Message: fmt.Sprintf("Stock restored for order %s", order.OrderID),
			UserID:  &order.SellerID,
			Metadata: map[string]any{
				"order_id": order.OrderID,
			},
		})
	}
}

func (s *service) ConfirmCashPayment(ctx context.Context, id uuid.UUID, actor Actor) (*models.Order, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.CodeNotFound, "order not found")
			}
			return apperrors.Wrap(apperrors.CodeInternal, err, "loading order")
		}
		if actor.Role != enums.RoleAdmin && order.SellerID != actor.ID && order.BuyerID != actor.ID {
			return apperrors.New(apperrors.CodeForbidden, "only the order's buyer or seller can confirm cash collection")
		}
		if order.PaymentMethod != enums.PaymentMethodCOD {
			return apperrors.New(apperrors.CodeStateConflict, "order is not cash on delivery")
		}
		if order.Status != enums.OrderStatusDelivered {
			return apperrors.New(apperrors.CodeStateConflict, "order is not delivered yet")
		}
		if order.PaymentStatus != enums.PaymentStatusPending {
			return apperrors.New(apperrors.CodeStateConflict, "payment already recorded")
		}

		order.PaymentStatus = enums.PaymentStatusPaid
		if err := s.ensureCODTransaction(ctx, s.txns.WithTx(tx), order, enums.TransactionStatusCompleted); err != nil {
			return err
		}
		if err := repo.Update(ctx, order); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "saving order")
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.EmitToUser(ctx, updated.BuyerID.String(), realtime.Event{Name: "order:update", Data: updated})
	s.notifier.EmitToUser(ctx, updated.SellerID.String(), realtime.Event{Name: "transaction:update", Data: updated})
	actorID := actor.ID
	s.activity.Log(ctx, activity.Entry{
		Type:    enums.ActivityCODSettlementCompleted,
		Message: fmt.Sprintf("Cash collected for order %s", updated.OrderID),
		UserID:  &actorID,
		Metadata: map[string]any{
			"order_id": updated.OrderID,
		},
	})
	return updated, nil
}
