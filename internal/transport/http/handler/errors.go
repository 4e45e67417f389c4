package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/No0oD/Stajh2Test/internal/domain"
)

// publicErrors maps specific domain errors to client-facing messages.
// Checked in order before the category fallback in httpError.
var publicErrors = []struct {
	err    error
	status int
	msg    string
}{
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrCodeNotFound, http.StatusNotFound, "No verification code found for this email"},
	{domain.ErrCodeExpired, http.StatusGone, "Verification code has expired"},
	{domain.ErrCodeMismatch, http.StatusBadRequest, "Invalid verification code"},
	{domain.ErrSendFailed, http.StatusInternalServerError, "Failed to send verification email"},
	{domain.ErrNotVerified, http.StatusForbidden, "Email has not been verified"},
	{domain.ErrEmailTaken, http.StatusConflict, "Email already registered"},
	{domain.ErrBadCredentials, http.StatusUnauthorized, "Invalid email or password"},
}

// httpError writes err as a JSON error with the status its category maps to.
// Dependency failures are logged and reported without internal detail.
func httpError(w http.ResponseWriter, r *http.Request, err error) {
	for _, pe := range publicErrors {
		if errors.Is(err, pe.err) {
			if pe.status >= http.StatusInternalServerError {
				slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
			}
			writeError(w, pe.status, pe.msg)
			return
		}
	}
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, strings.TrimSuffix(err.Error(), ": "+domain.ErrValidation.Error()))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrExpired):
		writeError(w, http.StatusGone, "expired")
	case errors.Is(err, domain.ErrMismatch):
		writeError(w, http.StatusBadRequest, "mismatch")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrAuth):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
