package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/CSCI-GA-2820-FA23-003/shopcarts/internal/repository"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", slog.Any("err", err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// handleServiceError maps repository error kinds to HTTP statuses:
// not-found to 404, uniqueness conflict to 409, everything else to a
// generic 500 with the detail logged rather than leaked.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrShopcartNotFound):
		respondError(w, http.StatusNotFound, "not_found", "shopcart not found")
	case errors.Is(err, repository.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", "item not found in shopcart")
	case errors.Is(err, repository.ErrDuplicateCustomer):
		respondError(w, http.StatusConflict, "already_exists", "shopcart for this customer already exists")
	default:
		slog.Error("internal error", slog.Any("err", err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
