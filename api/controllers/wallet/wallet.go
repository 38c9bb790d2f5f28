package wallet

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/agrimart-np/agrimart-backend/api/middleware"
	"github.com/agrimart-np/agrimart-backend/api/responses"
	"github.com/agrimart-np/agrimart-backend/api/validators"
	"github.com/agrimart-np/agrimart-backend/internal/ledger"
	internalwallet "github.com/agrimart-np/agrimart-backend/internal/wallet"
	"github.com/agrimart-np/agrimart-backend/internal/withdrawals"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
	pkgerrors "github.com/agrimart-np/agrimart-backend/pkg/errors"
	"github.com/agrimart-np/agrimart-backend/pkg/logger"
)

func callerIdentity(r *http.Request) (uuid.UUID, enums.Role, error) {
	id, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity")
	}
	return id, enums.Role(middleware.RoleFromContext(r.Context())), nil
}

// Overview returns the seller's wallet with its reconciled ledger views and
// recent withdrawals.
func Overview(svc internalwallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		overview, err := svc.Overview(r.Context(), userID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

// RequestWithdrawal opens a withdrawal for the caller's available balance.
func RequestWithdrawal(svc withdrawals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, role, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input withdrawals.RequestInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.UserID = userID
		input.Role = role

		withdrawal, err := svc.Request(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, withdrawal)
	}
}

// LedgerCOD returns the caller's reconciled cash collection ledger.
func LedgerCOD(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.CODForSeller(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// LedgerOnline returns the caller's online earnings ledger.
func LedgerOnline(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.OnlineForSeller(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
