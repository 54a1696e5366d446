package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires all HTTP routes
func NewRouter(carts *CartHandler, orders *OrderHandler, vehicles *VehicleHandler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	// Fleet browsing
	api.HandleFunc("/vehicles", vehicles.ListVehicles).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{vehicleID}", vehicles.GetVehicle).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{vehicleID}/availability", orders.CheckAvailability).Methods(http.MethodGet)

	// Cart
	api.HandleFunc("/cart", carts.GetCart).Methods(http.MethodGet)
	api.HandleFunc("/cart/items", carts.AddItem).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{vehicleID}", carts.UpdateItem).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{vehicleID}", carts.RemoveItem).Methods(http.MethodDelete)
	api.HandleFunc("/cart/checkout", carts.Checkout).Methods(http.MethodPost)

	// Customer orders
	api.HandleFunc("/orders", orders.ListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{orderID}", orders.GetOrder).Methods(http.MethodGet)

	// Staff console
	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/orders", orders.ListAllOrders).Methods(http.MethodGet)
	admin.HandleFunc("/orders/{orderID}/start", orders.StartOrder).Methods(http.MethodPost)
	admin.HandleFunc("/orders/{orderID}/complete", orders.CompleteOrder).Methods(http.MethodPost)
	admin.HandleFunc("/orders/{orderID}/cancel", orders.CancelOrder).Methods(http.MethodPost)
	admin.HandleFunc("/vehicles", vehicles.AddVehicle).Methods(http.MethodPost)
	admin.HandleFunc("/vehicles/{vehicleID}", vehicles.UpdateVehicle).Methods(http.MethodPut)

	return r
}
