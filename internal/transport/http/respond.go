package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ssarthaks/gym-webapp/internal/domain"
	"github.com/ssarthaks/gym-webapp/internal/validate"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

type validationResponse struct {
	Message string               `json:"message"`
	Errors  []validate.FieldError `json:"errors"`
}

// writeError maps service errors onto the HTTP surface. Anything
// unrecognized becomes a logged, generic 500 so internals never leak.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validate.Errors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, validationResponse{
			Message: "Validation failed",
			Errors:  verrs,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrAccountDeleted),
		errors.Is(err, domain.ErrAlreadyDeleted),
		errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrPasswordReused),
		errors.Is(err, domain.ErrCodeInvalid),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrLoginFailed),
		errors.Is(err, domain.ErrOldPasswordMismatch):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmailSendFailed):
		// Deliberately surfaced so the caller knows to retry the send.
		writeMessage(w, http.StatusInternalServerError, domain.ErrEmailSendFailed.Error())
	default:
		slog.Error("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad request")
		return false
	}
	return true
}
