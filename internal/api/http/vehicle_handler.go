package http

import (
	"encoding/json"
	"net/http"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/service"
)

// VehicleHandler exposes fleet browsing and staff fleet management
type VehicleHandler struct {
	vehicles service.VehicleService
}

func NewVehicleHandler(vehicles service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

func (h *VehicleHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	vehicles, total, err := h.vehicles.ListVehicles(r.Context(), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vehicles": vehicles,
		"total":    total,
	})
}

func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "vehicleID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	vehicle, err := h.vehicles.GetVehicle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) AddVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle domain.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.vehicles.AddVehicle(r.Context(), &vehicle); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "vehicleID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var vehicle domain.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	vehicle.ID = id

	if err := h.vehicles.UpdateVehicle(r.Context(), &vehicle); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}
