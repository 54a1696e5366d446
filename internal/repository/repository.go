package repository

import (
	"context"
	"time"

	"fleetrent-backend/internal/domain"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Vehicle, int32, error)
}

// CartRepository has two implementations: a persisted Postgres cart for
// authenticated flows and an in-memory cart for guest sessions. Both enforce
// at most one line per vehicle per cart.
type CartRepository interface {
	// GetActiveByUser returns the user's active cart and its items, creating
	// an empty cart when none exists.
	GetActiveByUser(ctx context.Context, userID int32) (*domain.Cart, []domain.CartItem, error)
	AddItem(ctx context.Context, cartID int32, item *domain.CartItem) error
	UpdateItem(ctx context.Context, cartID, vehicleID int32, mode domain.BillingMode, quantity int32, startAt time.Time) error
	RemoveItem(ctx context.Context, cartID, vehicleID int32) error
	// MarkConverted retires a cart after a successful checkout. Converting an
	// already-converted cart is a no-op.
	MarkConverted(ctx context.Context, cartID int32) error
}

type OrderRepository interface {
	// CreateReserved atomically validates availability for every line item
	// and persists the order, its items and the recomputed total. The source
	// cart row is marked converted in the same transaction when it exists.
	// Vehicle rows are locked for the duration of the overlap scan so that
	// concurrent checkouts for the same vehicle serialize; exactly one of two
	// overlapping attempts can succeed.
	CreateReserved(ctx context.Context, order *domain.Order, items []domain.OrderItem, cartID int32) error

	GetByID(ctx context.Context, id int32) (*domain.Order, []domain.OrderItem, error)

	// Activate moves a DRAFT order to ONGOING after re-checking, under
	// vehicle row locks, that every item interval is still free of other
	// active reservations.
	Activate(ctx context.Context, id int32, startedAt time.Time) error
	Complete(ctx context.Context, id int32, completedAt time.Time) error
	Cancel(ctx context.Context, id int32, notes string, cancelledAt time.Time) error

	ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Order, int32, error)
	List(ctx context.Context, status string, page, pageSize int32) ([]domain.Order, int32, error)

	// IsVehicleReserved is the lock-free availability probe used by read
	// paths. Reserving operations never rely on it alone.
	IsVehicleReserved(ctx context.Context, vehicleID int32, startAt, endAt time.Time, excludeOrderID int32) (bool, error)
}
