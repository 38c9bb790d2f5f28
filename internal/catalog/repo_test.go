package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Product{}, &models.InventoryItem{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return gdb
}

func seedProduct(t *testing.T, gdb *gorm.DB, qty int64) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		Name:     "Tomatoes",
		Category: "vegetables",
		Quantity: decimal.NewFromInt(qty),
		Unit:     "kg",
		Price:    decimal.NewFromInt(80),
	}
	if err := gdb.Create(product).Error; err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	return product
}

func quantityOf(t *testing.T, gdb *gorm.DB, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var product models.Product
	if err := gdb.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("loading product: %v", err)
	}
	return product.Quantity
}

func TestDecrementStopsAtZero(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()
	product := seedProduct(t, gdb, 5)

	if err := repo.Decrement(ctx, enums.RoleFarmer, product.ID, decimal.NewFromInt(3)); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if got := quantityOf(t, gdb, product.ID); !got.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("quantity = %s, want 2", got)
	}

	// Oversold: only 2 left, asking for 3 must refuse and leave stock alone.
	err := repo.Decrement(ctx, enums.RoleFarmer, product.ID, decimal.NewFromInt(3))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := quantityOf(t, gdb, product.ID); !got.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("oversell changed quantity to %s", got)
	}

	// Draining to exactly zero is a legal sale.
	if err := repo.Decrement(ctx, enums.RoleFarmer, product.ID, decimal.NewFromInt(2)); err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if got := quantityOf(t, gdb, product.ID); !got.IsZero() {
		t.Fatalf("quantity = %s, want 0", got)
	}
}

func TestDecrementUnknownListing(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	err := repo.Decrement(context.Background(), enums.RoleFarmer, uuid.New(), decimal.NewFromInt(1))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock for a missing listing, got %v", err)
	}
}

func TestRestockAfterCancellation(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()
	product := seedProduct(t, gdb, 2)

	if err := repo.Restock(ctx, enums.RoleFarmer, product.ID, decimal.NewFromInt(3)); err != nil {
		t.Fatalf("restock failed: %v", err)
	}
	if got := quantityOf(t, gdb, product.ID); !got.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("quantity = %s, want 5", got)
	}
}
