package service

import (
	"context"
	"testing"
	"time"

	"fleetrent-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCartService_Checkout(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Empty cart", func(t *testing.T) {
		mockCartRepo := new(MockCartRepo)
		mockOrderRepo := new(MockOrderRepo)
		svc := NewCartService(mockCartRepo, new(MockVehicleRepo), mockOrderRepo, new(MockEmailService))

		cart := &domain.Cart{ID: 5, UserID: 1, Status: domain.CartStatusActive}
		mockCartRepo.On("GetActiveByUser", ctx, int32(1)).Return(cart, []domain.CartItem{}, nil)

		_, _, err := svc.Checkout(ctx, 1, "", "")
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
		mockOrderRepo.AssertNotCalled(t, "CreateReserved", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Vehicle no longer rentable", func(t *testing.T) {
		mockCartRepo := new(MockCartRepo)
		mockVehicleRepo := new(MockVehicleRepo)
		mockOrderRepo := new(MockOrderRepo)
		svc := NewCartService(mockCartRepo, mockVehicleRepo, mockOrderRepo, new(MockEmailService))

		cart := &domain.Cart{ID: 5, UserID: 1, Status: domain.CartStatusActive}
		items := []domain.CartItem{{CartID: 5, VehicleID: 7, Mode: domain.BillingModeDaily, Quantity: 2, StartAt: start}}
		retired := testVehicle(7)
		retired.Status = domain.VehicleStatusRetired
		mockCartRepo.On("GetActiveByUser", ctx, int32(1)).Return(cart, items, nil)
		mockVehicleRepo.On("GetByID", ctx, int32(7)).Return(retired, nil)

		_, _, err := svc.Checkout(ctx, 1, "", "")
		assert.ErrorIs(t, err, domain.ErrVehicleNotRentable)
		mockOrderRepo.AssertNotCalled(t, "CreateReserved", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Successful checkout freezes prices", func(t *testing.T) {
		mockCartRepo := new(MockCartRepo)
		mockVehicleRepo := new(MockVehicleRepo)
		mockOrderRepo := new(MockOrderRepo)
		mockEmailSvc := new(MockEmailService)
		svc := NewCartService(mockCartRepo, mockVehicleRepo, mockOrderRepo, mockEmailSvc)

		cart := &domain.Cart{ID: 5, UserID: 1, Status: domain.CartStatusActive}
		cartItems := []domain.CartItem{{CartID: 5, VehicleID: 7, Mode: domain.BillingModeDaily, Quantity: 2, StartAt: start}}
		mockCartRepo.On("GetActiveByUser", ctx, int32(1)).Return(cart, cartItems, nil)
		mockVehicleRepo.On("GetByID", ctx, int32(7)).Return(testVehicle(7), nil)
		mockOrderRepo.On("CreateReserved", ctx, mock.MatchedBy(func(o *domain.Order) bool {
			return o.UserID == 1 && o.Reference != "" && o.ContactEmail == "renter@test.com"
		}), mock.MatchedBy(func(items []domain.OrderItem) bool {
			if len(items) != 1 {
				return false
			}
			it := items[0]
			return it.VehicleID == 7 &&
				it.UnitPrice == 150000 &&
				it.Subtotal == 300000 &&
				it.EndAt.Equal(start.AddDate(0, 0, 2))
		}), int32(5)).Run(func(args mock.Arguments) {
			o := args.Get(1).(*domain.Order)
			o.ID = 42
			o.Status = domain.OrderStatusDraft
			o.TotalPrice = 300000
		}).Return(nil)
		mockCartRepo.On("MarkConverted", ctx, int32(5)).Return(nil)
		mockEmailSvc.On("SendOrderConfirmation", ctx, "renter@test.com", mock.AnythingOfType("string"), int64(300000)).Return(nil)

		order, items, err := svc.Checkout(ctx, 1, "weekend trip", "renter@test.com")
		assert.NoError(t, err)
		assert.Equal(t, domain.OrderStatusDraft, order.Status)
		assert.Equal(t, int64(300000), order.TotalPrice)
		assert.Equal(t, domain.SumSubtotals(items), order.TotalPrice)
		mockCartRepo.AssertExpectations(t)
		mockOrderRepo.AssertExpectations(t)
		mockEmailSvc.AssertExpectations(t)
	})

	t.Run("Availability conflict leaves cart untouched", func(t *testing.T) {
		mockCartRepo := new(MockCartRepo)
		mockVehicleRepo := new(MockVehicleRepo)
		mockOrderRepo := new(MockOrderRepo)
		svc := NewCartService(mockCartRepo, mockVehicleRepo, mockOrderRepo, new(MockEmailService))

		cart := &domain.Cart{ID: 5, UserID: 1, Status: domain.CartStatusActive}
		cartItems := []domain.CartItem{{CartID: 5, VehicleID: 7, Mode: domain.BillingModeDaily, Quantity: 2, StartAt: start}}
		mockCartRepo.On("GetActiveByUser", ctx, int32(1)).Return(cart, cartItems, nil)
		mockVehicleRepo.On("GetByID", ctx, int32(7)).Return(testVehicle(7), nil)

		conflict := &domain.ConflictError{VehicleID: 7, StartAt: start, EndAt: start.AddDate(0, 0, 2)}
		mockOrderRepo.On("CreateReserved", ctx, mock.Anything, mock.Anything, int32(5)).Return(conflict)

		_, _, err := svc.Checkout(ctx, 1, "", "")
		assert.True(t, domain.IsConflict(err))
		mockCartRepo.AssertNotCalled(t, "MarkConverted", mock.Anything, mock.Anything)
	})
}
