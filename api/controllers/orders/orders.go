package orders

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agrimart-np/agrimart-backend/api/middleware"
	"github.com/agrimart-np/agrimart-backend/api/responses"
	"github.com/agrimart-np/agrimart-backend/api/validators"
	internalorders "github.com/agrimart-np/agrimart-backend/internal/orders"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
	pkgerrors "github.com/agrimart-np/agrimart-backend/pkg/errors"
	"github.com/agrimart-np/agrimart-backend/pkg/logger"
)

// statusConfirmCashPaid is the sentinel the seller dashboard sends on the
// status endpoint to settle a delivered COD order. It is not an order status.
const statusConfirmCashPaid = "Confirm Cash Paid"

func actorFromRequest(r *http.Request) (internalorders.Actor, error) {
	id, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return internalorders.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	return internalorders.Actor{ID: id, Role: enums.Role(middleware.RoleFromContext(r.Context()))}, nil
}

// InitiatePayment builds the signed eSewa form for an online checkout.
func InitiatePayment(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input internalorders.CheckoutInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.BuyerID = actor.ID

		form, err := svc.InitiatePayment(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, form)
	}
}

// CreateCOD places cash-on-delivery orders for the cart, one per seller.
func CreateCOD(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input internalorders.CheckoutInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.BuyerID = actor.ID

		orders, err := svc.CreateCODOrders(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orders)
	}
}

// VerifyPayment settles an eSewa success callback into paid orders.
func VerifyPayment(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input internalorders.VerifyPaymentInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.BuyerID = actor.ID

		orders, err := svc.VerifyPayment(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orders)
	}
}

// List returns the caller's orders, buyer or seller perspective by role.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.ListForUser(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus drives the order state machine. The cash confirmation
// sentinel routes to COD settlement instead of a status transition.
func UpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id"))
			return
		}

		var body updateStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if body.Status == statusConfirmCashPaid {
			order, err := svc.ConfirmCashPayment(r.Context(), orderID, actor)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, order)
			return
		}

		to, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := svc.Transition(r.Context(), orderID, to, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
