package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound indicates the referenced cart, order, vehicle or item does
	// not exist or does not belong to the caller.
	ErrNotFound = errors.New("requested resource not found")

	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrInvalidMode        = errors.New("billing mode must be daily, weekly or monthly")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidStartDate   = errors.New("start date is required")
	ErrDuplicateCartItem  = errors.New("vehicle is already in the cart")
	ErrVehicleNotRentable = errors.New("vehicle is not available for rental")

	// ErrInvalidTransition indicates a lifecycle action attempted from a
	// state that does not allow it.
	ErrInvalidTransition = errors.New("order status does not allow this action")
	ErrNotYetCompletable = errors.New("rental period has not ended yet")
)

// ConflictError reports that a requested interval overlaps an existing
// active reservation for the same vehicle.
type ConflictError struct {
	VehicleID int32
	StartAt   time.Time
	EndAt     time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("vehicle %d is already reserved between %s and %s",
		e.VehicleID, e.StartAt.Format("2006-01-02"), e.EndAt.Format("2006-01-02"))
}

// IsConflict reports whether err is an availability conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
