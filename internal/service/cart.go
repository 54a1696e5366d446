package service

import (
	"context"
	"fmt"
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"
	"fleetrent-backend/internal/utils"
)

type cartService struct {
	cartRepo    repository.CartRepository
	vehicleRepo repository.VehicleRepository
	orderRepo   repository.OrderRepository
	emailSvc    EmailService
}

func NewCartService(
	cartRepo repository.CartRepository,
	vehicleRepo repository.VehicleRepository,
	orderRepo repository.OrderRepository,
	emailSvc EmailService,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		vehicleRepo: vehicleRepo,
		orderRepo:   orderRepo,
		emailSvc:    emailSvc,
	}
}

func (s *cartService) GetCart(ctx context.Context, userID int32) (*CartView, error) {
	cart, items, err := s.cartRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, cart, items)
}

func (s *cartService) AddItem(ctx context.Context, userID, vehicleID int32) (*CartView, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.Rentable() {
		return nil, domain.ErrVehicleNotRentable
	}

	cart, _, err := s.cartRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// New lines start as a one-day rental from tomorrow; the customer
	// configures mode, quantity and start date afterwards.
	item := &domain.CartItem{
		VehicleID: vehicleID,
		Mode:      domain.BillingModeDaily,
		Quantity:  1,
		StartAt:   nextMidnightUTC(),
	}
	if err := s.cartRepo.AddItem(ctx, cart.ID, item); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *cartService) UpdateItem(ctx context.Context, userID, vehicleID int32, mode string, quantity int32, startAt time.Time) (*CartView, error) {
	billingMode, err := domain.ParseBillingMode(mode)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	if startAt.IsZero() {
		return nil, domain.ErrInvalidStartDate
	}

	cart, _, err := s.cartRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.UpdateItem(ctx, cart.ID, vehicleID, billingMode, quantity, startAt); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, vehicleID int32) error {
	cart, _, err := s.cartRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.cartRepo.RemoveItem(ctx, cart.ID, vehicleID)
}

func (s *cartService) buildView(ctx context.Context, cart *domain.Cart, items []domain.CartItem) (*CartView, error) {
	view := &CartView{Cart: *cart, Lines: make([]CartLine, 0, len(items))}
	for _, it := range items {
		vehicle, err := s.vehicleRepo.GetByID(ctx, it.VehicleID)
		if err != nil {
			return nil, fmt.Errorf("resolving cart vehicle %d: %w", it.VehicleID, err)
		}
		quote, err := utils.QuoteLine(vehicle.Rates, it.Mode, it.Quantity, it.StartAt)
		if err != nil {
			return nil, fmt.Errorf("pricing cart vehicle %d: %w", it.VehicleID, err)
		}
		view.Lines = append(view.Lines, CartLine{
			Item:      it,
			Vehicle:   vehicle,
			UnitPrice: quote.UnitPrice,
			Subtotal:  quote.Subtotal,
			EndAt:     quote.EndAt,
		})
		view.Total += quote.Subtotal
	}
	return view, nil
}

func nextMidnightUTC() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
}
