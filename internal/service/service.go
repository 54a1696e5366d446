package service

import (
	"context"
	"time"

	"fleetrent-backend/internal/domain"
)

// CartLine is a cart item together with its live-priced quote. Quotes are
// recomputed from the current rate card on every read; they only freeze at
// checkout.
type CartLine struct {
	Item      domain.CartItem `json:"item"`
	Vehicle   *domain.Vehicle `json:"vehicle"`
	UnitPrice int64           `json:"unit_price"`
	Subtotal  int64           `json:"subtotal"`
	EndAt     time.Time       `json:"end_at"`
}

type CartView struct {
	Cart  domain.Cart `json:"cart"`
	Lines []CartLine  `json:"lines"`
	Total int64       `json:"total"`
}

type CartService interface {
	GetCart(ctx context.Context, userID int32) (*CartView, error)
	AddItem(ctx context.Context, userID, vehicleID int32) (*CartView, error)
	UpdateItem(ctx context.Context, userID, vehicleID int32, mode string, quantity int32, startAt time.Time) (*CartView, error)
	RemoveItem(ctx context.Context, userID, vehicleID int32) error
	// Checkout converts the user's active cart into a draft order,
	// all-or-nothing. On an availability conflict no partial order remains
	// and the cart is left untouched.
	Checkout(ctx context.Context, userID int32, notes, contactEmail string) (*domain.Order, []domain.OrderItem, error)
}

type OrderService interface {
	GetOrder(ctx context.Context, userID, orderID int32) (*domain.Order, []domain.OrderItem, error)
	ListOrders(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Order, int32, error)
	ListAllOrders(ctx context.Context, status string, page, pageSize int32) ([]domain.Order, int32, error)

	StartOrder(ctx context.Context, orderID int32) (*domain.Order, error)
	CompleteOrder(ctx context.Context, orderID int32) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID int32, reason string) (*domain.Order, error)

	CheckAvailability(ctx context.Context, vehicleID int32, startAt, endAt time.Time) (bool, error)
}

type VehicleService interface {
	AddVehicle(ctx context.Context, vehicle *domain.Vehicle) error
	GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicle *domain.Vehicle) error
	ListVehicles(ctx context.Context, status string, page, pageSize int32) ([]domain.Vehicle, int32, error)
}

type EmailService interface {
	SendOrderConfirmation(ctx context.Context, email, reference string, total int64) error
	SendOrderStarted(ctx context.Context, email, reference string) error
	SendOrderCompleted(ctx context.Context, email, reference string, total int64) error
	SendOrderCancelled(ctx context.Context, email, reference, reason string) error
	SendReturnReminder(ctx context.Context, email, reference string, endAt time.Time) error
}
