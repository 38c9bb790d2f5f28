package archive

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/agrimart-np/agrimart-backend/internal/activity"
	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
	pkgerrors "github.com/agrimart-np/agrimart-backend/pkg/errors"
	"github.com/agrimart-np/agrimart-backend/pkg/logger"
	"github.com/agrimart-np/agrimart-backend/pkg/realtime"
)

type noopActivity struct{}

func (noopActivity) Log(ctx context.Context, entry activity.Entry) {}
func (noopActivity) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	return nil, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	err = gdb.AutoMigrate(
		&models.User{}, &models.FarmerProfile{}, &models.CollectorProfile{},
		&models.SupplierProfile{}, &models.BuyerProfile{},
		&models.Product{}, &models.InventoryItem{},
		&models.Order{}, &models.Wallet{}, &models.Transaction{},
		&models.Withdrawal{}, &models.Activity{}, &models.Dispute{}, &models.OTP{},
		&models.ArchivedUser{}, &models.ArchivedFarmerProfile{},
		&models.ArchivedCollectorProfile{}, &models.ArchivedSupplierProfile{},
		&models.ArchivedBuyerProfile{}, &models.ArchivedProduct{},
		&models.ArchivedInventoryItem{}, &models.ArchivedOrder{},
		&models.ArchivedWallet{}, &models.ArchivedTransaction{},
		&models.ArchivedWithdrawal{}, &models.ArchivedActivity{},
		&models.ArchivedDispute{}, &models.ArchivedOTP{},
	)
	if err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return gdb
}

func newArchiveService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: &bytes.Buffer{}})
	svc, err := NewService(NewRepository(gdb), noopActivity{}, realtime.Nop(), logg)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

// seedFarmer plants a farmer with one row in every dependent table.
func seedFarmer(t *testing.T, gdb *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:    uuid.New(),
		Name:  "Ram Bahadur",
		Email: "ram@example.com",
		Role:  enums.RoleFarmer,
	}
	buyerID := uuid.New()
	orderID := "AGRM-0001"
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}
	must(gdb.Create(user).Error)
	must(gdb.Create(&models.FarmerProfile{ID: uuid.New(), UserID: user.ID, FarmName: "Gandaki Farm"}).Error)
	must(gdb.Create(&models.Product{
		ID: uuid.New(), OwnerID: user.ID, Name: "Tomatoes", Category: "vegetables",
		Quantity: decimal.NewFromInt(50), Unit: "kg", Price: decimal.NewFromInt(80),
	}).Error)
	must(gdb.Create(&models.Order{
		ID: uuid.New(), OrderID: orderID, BuyerID: buyerID, SellerID: user.ID,
		SellerRole: enums.RoleFarmer,
		Products: []models.OrderProduct{{
			ProductID: uuid.New(), Name: "Tomatoes",
			Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(80),
		}},
		TotalAmount: decimal.NewFromInt(400), DeliveryCharge: decimal.NewFromInt(100),
		Status: enums.OrderStatusDelivered, PaymentStatus: enums.PaymentStatusPaid,
		PaymentMethod: enums.PaymentMethodCOD, TransactionUUID: "txn-1",
	}).Error)
	must(gdb.Create(&models.Wallet{
		ID: uuid.New(), UserID: user.ID,
		AvailableBalance: decimal.NewFromInt(400),
		LockedBalance:    decimal.Zero, TotalEarnings: decimal.NewFromInt(400),
	}).Error)
	must(gdb.Create(&models.Transaction{
		ID: uuid.New(), SellerID: user.ID, BuyerID: &buyerID,
		Amount: decimal.NewFromInt(400), Type: enums.TransactionTypeCredit,
		PaymentMethod: enums.PaymentMethodCOD, Status: enums.TransactionStatusCompleted,
		Description: "Cash collection for order " + orderID, OrderID: &orderID,
	}).Error)
	must(gdb.Create(&models.Withdrawal{
		ID: uuid.New(), UserID: user.ID, Amount: decimal.NewFromInt(200),
		PaymentMethod: enums.PaymentMethodESewa, AccountDetails: "9800000001",
		Status: enums.WithdrawalStatusPending,
	}).Error)
	must(gdb.Create(&models.Activity{
		ID: uuid.New(), Type: enums.ActivityOrderPlaced, Message: "order placed", UserID: &user.ID,
	}).Error)
	must(gdb.Create(&models.Dispute{
		ID: uuid.New(), RaisedBy: buyerID, SellerID: &user.ID, Reason: "late delivery",
	}).Error)
	must(gdb.Create(&models.OTP{
		ID: uuid.New(), Email: user.Email, CodeHash: "abc123",
	}).Error)
	return user
}

func countRows(t *testing.T, gdb *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := gdb.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("counting: %v", err)
	}
	return n
}

func TestDeleteUserCascadeTotality(t *testing.T) {
	gdb := newTestDB(t)
	svc := newArchiveService(t, gdb)
	user := seedFarmer(t, gdb)
	reason := "account closure request"

	summary, err := svc.DeleteUser(context.Background(), user.ID, "admin@agrimart.test", &reason)
	if err != nil {
		t.Fatalf("cascade failed: %v", err)
	}

	// Nothing referencing the user survives in the live tables.
	checks := []struct {
		name  string
		model any
		query string
		args  []any
	}{
		{"users", &models.User{}, "id = ?", []any{user.ID}},
		{"farmer_profiles", &models.FarmerProfile{}, "user_id = ?", []any{user.ID}},
		{"products", &models.Product{}, "owner_id = ?", []any{user.ID}},
		{"orders", &models.Order{}, "seller_id = ?", []any{user.ID}},
		{"wallets", &models.Wallet{}, "user_id = ?", []any{user.ID}},
		{"transactions", &models.Transaction{}, "seller_id = ?", []any{user.ID}},
		{"withdrawals", &models.Withdrawal{}, "user_id = ?", []any{user.ID}},
		{"activities", &models.Activity{}, "user_id = ?", []any{user.ID}},
		{"disputes", &models.Dispute{}, "seller_id = ?", []any{user.ID}},
		{"otps", &models.OTP{}, "email = ?", []any{user.Email}},
	}
	for _, c := range checks {
		if n := countRows(t, gdb, c.model, c.query, c.args...); n != 0 {
			t.Errorf("%s: %d live rows survived the cascade", c.name, n)
		}
	}

	// Every row reappears in its shadow table.
	if n := countRows(t, gdb, &models.ArchivedUser{}, "original_id = ?", user.ID); n != 1 {
		t.Errorf("expected 1 archived user, got %d", n)
	}
	if n := countRows(t, gdb, &models.ArchivedFarmerProfile{}, "user_id = ?", user.ID); n != 1 {
		t.Errorf("expected 1 archived profile, got %d", n)
	}
	if n := countRows(t, gdb, &models.ArchivedProduct{}, "owner_id = ?", user.ID); n != 1 {
		t.Errorf("expected 1 archived product, got %d", n)
	}
	if n := countRows(t, gdb, &models.ArchivedOrder{}, "seller_id = ?", user.ID); n != 1 {
		t.Errorf("expected 1 archived order, got %d", n)
	}
	if n := countRows(t, gdb, &models.ArchivedWallet{}, "user_id = ?", user.ID); n != 1 {
		t.Errorf("expected 1 archived wallet, got %d", n)
	}
	if n := countRows(t, gdb, &models.ArchivedTransaction{}, "seller_id = ?", user.ID); n != 1 {
		t.Errorf("expected 1 archived transaction, got %d", n)
	}
	if n := countRows(t, gdb, &models.ArchivedWithdrawal{}, "user_id = ?", user.ID); n != 1 {
		t.Errorf("expected 1 archived withdrawal, got %d", n)
	}
	if n := countRows(t, gdb, &models.ArchivedActivity{}, "user_id = ?", user.ID); n != 1 {
		t.Errorf("expected 1 archived activity, got %d", n)
	}
	if n := countRows(t, gdb, &models.ArchivedDispute{}, "seller_id = ?", user.ID); n != 1 {
		t.Errorf("expected 1 archived dispute, got %d", n)
	}
	if n := countRows(t, gdb, &models.ArchivedOTP{}, "email = ?", user.Email); n != 1 {
		t.Errorf("expected 1 archived otp, got %d", n)
	}

	for _, name := range []string{"profile", "products", "orders", "wallet", "transactions", "withdrawals", "activities", "disputes", "otps"} {
		if summary.Archived[name] != 1 {
			t.Errorf("summary[%s] = %d, want 1", name, summary.Archived[name])
		}
	}
}

func TestDeleteUserSnapshotCarriesReason(t *testing.T) {
	gdb := newTestDB(t)
	svc := newArchiveService(t, gdb)
	user := seedFarmer(t, gdb)
	reason := "fraud investigation"

	if _, err := svc.DeleteUser(context.Background(), user.ID, "admin@agrimart.test", &reason); err != nil {
		t.Fatalf("cascade failed: %v", err)
	}

	var snapshot models.ArchivedUser
	if err := gdb.First(&snapshot, "original_id = ?", user.ID).Error; err != nil {
		t.Fatalf("loading snapshot: %v", err)
	}
	if snapshot.DeletedBy != "admin@agrimart.test" {
		t.Fatalf("deleted_by = %q", snapshot.DeletedBy)
	}
	if snapshot.Reason == nil || *snapshot.Reason != reason {
		t.Fatal("snapshot must carry the deletion reason")
	}
	if snapshot.Email != user.Email || snapshot.Role != enums.RoleFarmer {
		t.Fatalf("snapshot does not mirror the live row: %+v", snapshot)
	}
}

func TestDeleteUserBuyerArchivesOrdersAsBuyer(t *testing.T) {
	gdb := newTestDB(t)
	svc := newArchiveService(t, gdb)

	buyer := &models.User{ID: uuid.New(), Name: "Sita", Email: "sita@example.com", Role: enums.RoleBuyer}
	if err := gdb.Create(buyer).Error; err != nil {
		t.Fatal(err)
	}
	if err := gdb.Create(&models.BuyerProfile{ID: uuid.New(), UserID: buyer.ID}).Error; err != nil {
		t.Fatal(err)
	}
	if err := gdb.Create(&models.Order{
		ID: uuid.New(), OrderID: "AGRM-0002", BuyerID: buyer.ID, SellerID: uuid.New(),
		SellerRole: enums.RoleFarmer, Products: []models.OrderProduct{},
		TotalAmount: decimal.NewFromInt(100), DeliveryCharge: decimal.NewFromInt(100),
		Status: enums.OrderStatusPending, PaymentStatus: enums.PaymentStatusPending,
		PaymentMethod: enums.PaymentMethodCOD, TransactionUUID: "txn-2",
	}).Error; err != nil {
		t.Fatal(err)
	}

	summary, err := svc.DeleteUser(context.Background(), buyer.ID, buyer.Email, nil)
	if err != nil {
		t.Fatalf("cascade failed: %v", err)
	}
	if summary.Archived["orders"] != 1 {
		t.Fatalf("expected the buyer-side order archived, got %d", summary.Archived["orders"])
	}
	if n := countRows(t, gdb, &models.ArchivedBuyerProfile{}, "user_id = ?", buyer.ID); n != 1 {
		t.Fatalf("expected archived buyer profile, got %d", n)
	}
}

func TestDeleteUserUnknown(t *testing.T) {
	gdb := newTestDB(t)
	svc := newArchiveService(t, gdb)

	_, err := svc.DeleteUser(context.Background(), uuid.New(), "admin@agrimart.test", nil)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
