package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

// Actor identifies the authenticated user driving an operation.
type Actor struct {
	ID   uuid.UUID
	Role enums.Role
}

// CartItem is one line of a checkout cart. Seller identity travels with the
// item because a single cart may span multiple sellers.
type CartItem struct {
	ProductID  uuid.UUID       `json:"product_id" validate:"required"`
	SellerID   uuid.UUID       `json:"seller_id" validate:"required"`
	SellerRole enums.Role      `json:"seller_role" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price" validate:"required"`
	Unit       string          `json:"unit"`
	Category   string          `json:"category"`
	Image      *string         `json:"image,omitempty"`
}

// CheckoutInput is a buyer's cart at the moment of checkout.
type CheckoutInput struct {
	BuyerID uuid.UUID
	Items   []CartItem `json:"items" validate:"required,min=1,dive"`
}

// VerifyPaymentInput carries the base64 payload eSewa appends to the success
// redirect, plus the cart the payment was initiated for.
type VerifyPaymentInput struct {
	BuyerID     uuid.UUID
	EncodedData string     `json:"data" validate:"required"`
	Items       []CartItem `json:"items" validate:"required,min=1,dive"`
}

// sellerGroup is one seller's slice of a multi-seller cart.
type sellerGroup struct {
	SellerID   uuid.UUID
	SellerRole enums.Role
	Products   []models.OrderProduct
	Total      decimal.Decimal
}

// groupBySeller splits a cart into per-seller groups, preserving the order in
// which sellers first appear.
func groupBySeller(items []CartItem) []sellerGroup {
	index := make(map[uuid.UUID]int, len(items))
	groups := make([]sellerGroup, 0, len(items))
	for _, item := range items {
		i, ok := index[item.SellerID]
		if !ok {
			i = len(groups)
			index[item.SellerID] = i
			groups = append(groups, sellerGroup{SellerID: item.SellerID, SellerRole: item.SellerRole})
		}
		groups[i].Products = append(groups[i].Products, models.OrderProduct{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Unit:      item.Unit,
			Category:  item.Category,
			Image:     item.Image,
		})
		groups[i].Total = groups[i].Total.Add(item.UnitPrice.Mul(item.Quantity))
	}
	return groups
}

func cartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(item.Quantity))
	}
	return total
}
