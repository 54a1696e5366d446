package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fleetrent-backend/internal/service"
)

var errInvalidPathID = errors.New("invalid id in path")

// OrderHandler exposes customer order reads plus the staff lifecycle actions
type OrderHandler struct {
	orders service.OrderService
}

func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	order, items, err := h.orders.GetOrder(r.Context(), uid, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order": order,
		"items": items,
	})
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	page, pageSize := pagination(r)

	orders, total, err := h.orders.ListOrders(r.Context(), uid, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
	})
}

func (h *OrderHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	orders, total, err := h.orders.ListAllOrders(r.Context(), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"total":  total,
	})
}

func (h *OrderHandler) StartOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	order, err := h.orders.StartOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	order, err := h.orders.CompleteOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var req cancelRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	order, err := h.orders.CancelOrder(r.Context(), orderID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathID(r, "vehicleID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	start, err := time.ParseInLocation(dateLayout, r.URL.Query().Get("start"), time.UTC)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "start must be yyyy-mm-dd"})
		return
	}
	end, err := time.ParseInLocation(dateLayout, r.URL.Query().Get("end"), time.UTC)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "end must be yyyy-mm-dd"})
		return
	}

	available, err := h.orders.CheckAvailability(r.Context(), vehicleID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}
