package service

import (
	"context"
	"fmt"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/logger"
	"fleetrent-backend/internal/utils"

	"github.com/google/uuid"
)

// Checkout converts the user's active cart into a draft order. Every line is
// priced against the current rate card and the whole set is reserved through
// the repository's single atomic primitive; either all items are persisted
// with a frozen price snapshot or nothing is.
func (s *cartService) Checkout(ctx context.Context, userID int32, notes, contactEmail string) (*domain.Order, []domain.OrderItem, error) {
	cart, cartItems, err := s.cartRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(cartItems) == 0 {
		return nil, nil, domain.ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(cartItems))
	for _, ci := range cartItems {
		vehicle, err := s.vehicleRepo.GetByID(ctx, ci.VehicleID)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving vehicle %d: %w", ci.VehicleID, err)
		}
		if !vehicle.Rentable() {
			return nil, nil, fmt.Errorf("vehicle %d: %w", vehicle.ID, domain.ErrVehicleNotRentable)
		}
		quote, err := utils.QuoteLine(vehicle.Rates, ci.Mode, ci.Quantity, ci.StartAt)
		if err != nil {
			return nil, nil, fmt.Errorf("pricing vehicle %d: %w", vehicle.ID, err)
		}
		items = append(items, domain.OrderItem{
			VehicleID: ci.VehicleID,
			Mode:      ci.Mode,
			Quantity:  ci.Quantity,
			StartAt:   ci.StartAt,
			EndAt:     quote.EndAt,
			UnitPrice: quote.UnitPrice,
			Subtotal:  quote.Subtotal,
		})
	}

	order := &domain.Order{
		Reference:    uuid.NewString(),
		UserID:       userID,
		Notes:        notes,
		ContactEmail: contactEmail,
	}
	if err := s.orderRepo.CreateReserved(ctx, order, items, cart.ID); err != nil {
		return nil, nil, err
	}

	// The Postgres backend already converted the cart row inside the
	// reservation transaction; this clears the in-memory backend and is a
	// no-op otherwise.
	if err := s.cartRepo.MarkConverted(ctx, cart.ID); err != nil {
		logger.Error("Failed to mark cart converted after checkout", "cart_id", cart.ID, "error", err)
	}

	if order.ContactEmail != "" {
		if err := s.emailSvc.SendOrderConfirmation(ctx, order.ContactEmail, order.Reference, order.TotalPrice); err != nil {
			logger.Error("Failed to send order confirmation", "order_id", order.ID, "error", err)
		}
	}

	return order, items, nil
}
