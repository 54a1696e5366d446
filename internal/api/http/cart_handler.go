package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"fleetrent-backend/internal/service"

	"github.com/gorilla/mux"
)

const dateLayout = "2006-01-02"

// CartHandler exposes the cart and checkout operations
type CartHandler struct {
	carts service.CartService
}

func NewCartHandler(carts service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type addItemRequest struct {
	VehicleID int32 `json:"vehicle_id"`
}

type updateItemRequest struct {
	Mode      string `json:"mode"`
	Quantity  int32  `json:"quantity"`
	StartDate string `json:"start_date"`
}

type checkoutRequest struct {
	Notes        string `json:"notes"`
	ContactEmail string `json:"contact_email"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	view, err := h.carts.GetCart(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VehicleID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "vehicle_id is required"})
		return
	}

	view, err := h.carts.AddItem(r.Context(), uid, req.VehicleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	vehicleID, err := pathID(r, "vehicleID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	startAt, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "start_date must be yyyy-mm-dd"})
		return
	}

	view, err := h.carts.UpdateItem(r.Context(), uid, vehicleID, req.Mode, req.Quantity, startAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	vehicleID, err := pathID(r, "vehicleID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.carts.RemoveItem(r.Context(), uid, vehicleID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var req checkoutRequest
	if r.Body != nil {
		// Body is optional; notes and contact email default to empty.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	order, items, err := h.carts.Checkout(r.Context(), uid, req.Notes, req.ContactEmail)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"order": order,
		"items": items,
	})
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, errInvalidPathID
	}
	return int32(id), nil
}
