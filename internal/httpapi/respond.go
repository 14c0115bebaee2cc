package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dinara-volsu/library-management-system/internal/auth"
	"github.com/Dinara-volsu/library-management-system/internal/catalog"
	"github.com/Dinara-volsu/library-management-system/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrUnavailable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrCapacityExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrInvalidBook), errors.Is(err, auth.ErrInvalidRegistration):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
