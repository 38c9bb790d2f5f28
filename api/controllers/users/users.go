package users

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/agrimart-np/agrimart-backend/api/middleware"
	"github.com/agrimart-np/agrimart-backend/api/responses"
	"github.com/agrimart-np/agrimart-backend/api/validators"
	"github.com/agrimart-np/agrimart-backend/internal/archive"
	pkgerrors "github.com/agrimart-np/agrimart-backend/pkg/errors"
	"github.com/agrimart-np/agrimart-backend/pkg/logger"
)

type deleteRequest struct {
	Reason *string `json:"reason,omitempty"`
}

func decodeReason(r *http.Request) (*string, error) {
	if r.Body == nil || r.ContentLength == 0 {
		return nil, nil
	}
	var body deleteRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		return nil, err
	}
	if body.Reason != nil {
		trimmed := validators.SanitizeString(*body.Reason, 500)
		return &trimmed, nil
	}
	return nil, nil
}

// DeleteMe archives and removes the caller's own account.
func DeleteMe(svc archive.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user identity"))
			return
		}

		reason, err := decodeReason(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.DeleteUser(r.Context(), userID, "SELF", reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
