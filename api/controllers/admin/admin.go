package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agrimart-np/agrimart-backend/api/middleware"
	"github.com/agrimart-np/agrimart-backend/api/responses"
	"github.com/agrimart-np/agrimart-backend/api/validators"
	"github.com/agrimart-np/agrimart-backend/internal/activity"
	"github.com/agrimart-np/agrimart-backend/internal/archive"
	"github.com/agrimart-np/agrimart-backend/internal/ledger"
	internalwallet "github.com/agrimart-np/agrimart-backend/internal/wallet"
	"github.com/agrimart-np/agrimart-backend/internal/withdrawals"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
	pkgerrors "github.com/agrimart-np/agrimart-backend/pkg/errors"
	"github.com/agrimart-np/agrimart-backend/pkg/logger"
)

func adminID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	return id, nil
}

// ListWithdrawals returns withdrawal requests, optionally filtered by status.
func ListWithdrawals(svc withdrawals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *enums.WithdrawalStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := enums.ParseWithdrawalStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid withdrawal status"))
				return
			}
			status = &parsed
		}

		list, err := svc.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type processWithdrawalRequest struct {
	Status  string  `json:"status" validate:"required"`
	Remarks *string `json:"remarks,omitempty"`
}

// ProcessWithdrawal advances a withdrawal through its review workflow.
func ProcessWithdrawal(svc withdrawals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := adminID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid withdrawal id"))
			return
		}

		var body processWithdrawalRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		to, err := enums.ParseWithdrawalStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid withdrawal status"))
			return
		}

		withdrawal, err := svc.Process(r.Context(), id, to, body.Remarks, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, withdrawal)
	}
}

type freezeRequest struct {
	IsFrozen *bool `json:"isFrozen" validate:"required"`
}

// FreezeWallet toggles the frozen flag on a seller's wallet.
func FreezeWallet(svc internalwallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := adminID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := uuid.Parse(chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id"))
			return
		}

		var body freezeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		wallet, err := svc.SetFrozen(r.Context(), userID, *body.IsFrozen, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wallet)
	}
}

// LedgerCOD returns the platform-wide reconciled cash collection ledger.
func LedgerCOD(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.AllCOD(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// LedgerOnline returns the platform-wide online transaction ledger.
func LedgerOnline(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.AllOnline(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// SettleCOD marks a cash collection as verified by the back office. The
// reference is a transaction id or, for synthetic rows, an order number.
func SettleCOD(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := adminID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reference := chi.URLParam(r, "reference")
		if reference == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing settlement reference"))
			return
		}

		txn, err := svc.SettleCOD(r.Context(), reference, actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, txn)
	}
}

type deleteUserRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// DeleteUser archives and removes an account on behalf of an administrator.
func DeleteUser(svc archive.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := adminID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := uuid.Parse(chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id"))
			return
		}

		var reason *string
		if r.Body != nil && r.ContentLength > 0 {
			var body deleteUserRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			reason = body.Reason
		}

		summary, err := svc.DeleteUser(r.Context(), userID, actorID.String(), reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// Activities returns the most recent audit log entries.
func Activities(svc activity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.Recent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
