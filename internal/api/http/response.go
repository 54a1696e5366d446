package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors to HTTP statuses: not-found 404, availability
// conflicts 409, lifecycle and validation failures 422.
func writeError(w http.ResponseWriter, err error) {
	var ce *domain.ConflictError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &ce):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrNotYetCompletable),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidStartDate),
		errors.Is(err, domain.ErrDuplicateCartItem),
		errors.Is(err, domain.ErrVehicleNotRentable):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		logger.Error("Unhandled request error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// userID extracts the authenticated user from the X-User-ID header. Session
// handling lives in front of this service; an absent or malformed header is a
// bad request here.
func userID(r *http.Request) (int32, error) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return 0, errors.New("missing X-User-ID header")
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid X-User-ID header")
	}
	return int32(id), nil
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
