package orders

import (
	"fmt"

	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
	apperrors "github.com/agrimart-np/agrimart-backend/pkg/errors"
)

// transitions is the order status graph. Anything not listed here is an
// illegal edge, including every edge out of a terminal status.
var transitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusAccepted, enums.OrderStatusRejected, enums.OrderStatusCanceled},
	enums.OrderStatusAccepted:   {enums.OrderStatusProcessing, enums.OrderStatusCanceled},
	enums.OrderStatusProcessing: {enums.OrderStatusShipping},
	enums.OrderStatusShipping:   {enums.OrderStatusDelivered},
}

func canTransition(from, to enums.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// validateTransition checks both edge legality and actor authority. Buyers may
// only cancel while the order is still Pending; every other edge belongs to
// the seller.
func validateTransition(order *models.Order, to enums.OrderStatus, actor Actor) error {
	from := order.Status
	if !canTransition(from, to) {
		return apperrors.New(apperrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", from, to))
	}
	switch {
	case actor.Role == enums.RoleBuyer:
		if to != enums.OrderStatusCanceled || from != enums.OrderStatusPending {
			return apperrors.New(apperrors.CodeForbidden, "buyers may only cancel pending orders")
		}
		if order.BuyerID != actor.ID {
			return apperrors.New(apperrors.CodeForbidden, "order belongs to another buyer")
		}
	case actor.Role.IsSeller():
		if order.SellerID != actor.ID {
			return apperrors.New(apperrors.CodeForbidden, "order belongs to another seller")
		}
	case actor.Role == enums.RoleAdmin:
		// Admins may drive any legal edge.
	default:
		return apperrors.New(apperrors.CodeForbidden, "role cannot manage orders")
	}
	return nil
}
