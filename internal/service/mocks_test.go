package service

import (
	"context"
	"time"

	"fleetrent-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}
func (m *MockVehicleRepo) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}
func (m *MockVehicleRepo) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Vehicle, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Vehicle), args.Get(1).(int32), args.Error(2)
}

// MockCartRepo
type MockCartRepo struct {
	mock.Mock
}

func (m *MockCartRepo) GetActiveByUser(ctx context.Context, userID int32) (*domain.Cart, []domain.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var items []domain.CartItem
	if args.Get(1) != nil {
		items = args.Get(1).([]domain.CartItem)
	}
	return args.Get(0).(*domain.Cart), items, args.Error(2)
}
func (m *MockCartRepo) AddItem(ctx context.Context, cartID int32, item *domain.CartItem) error {
	args := m.Called(ctx, cartID, item)
	return args.Error(0)
}
func (m *MockCartRepo) UpdateItem(ctx context.Context, cartID, vehicleID int32, mode domain.BillingMode, quantity int32, startAt time.Time) error {
	args := m.Called(ctx, cartID, vehicleID, mode, quantity, startAt)
	return args.Error(0)
}
func (m *MockCartRepo) RemoveItem(ctx context.Context, cartID, vehicleID int32) error {
	args := m.Called(ctx, cartID, vehicleID)
	return args.Error(0)
}
func (m *MockCartRepo) MarkConverted(ctx context.Context, cartID int32) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

// MockOrderRepo
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) CreateReserved(ctx context.Context, order *domain.Order, items []domain.OrderItem, cartID int32) error {
	args := m.Called(ctx, order, items, cartID)
	return args.Error(0)
}
func (m *MockOrderRepo) GetByID(ctx context.Context, id int32) (*domain.Order, []domain.OrderItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var items []domain.OrderItem
	if args.Get(1) != nil {
		items = args.Get(1).([]domain.OrderItem)
	}
	return args.Get(0).(*domain.Order), items, args.Error(2)
}
func (m *MockOrderRepo) Activate(ctx context.Context, id int32, startedAt time.Time) error {
	args := m.Called(ctx, id, startedAt)
	return args.Error(0)
}
func (m *MockOrderRepo) Complete(ctx context.Context, id int32, completedAt time.Time) error {
	args := m.Called(ctx, id, completedAt)
	return args.Error(0)
}
func (m *MockOrderRepo) Cancel(ctx context.Context, id int32, notes string, cancelledAt time.Time) error {
	args := m.Called(ctx, id, notes, cancelledAt)
	return args.Error(0)
}
func (m *MockOrderRepo) ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	return args.Get(0).([]domain.Order), args.Get(1).(int32), args.Error(2)
}
func (m *MockOrderRepo) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Order), args.Get(1).(int32), args.Error(2)
}
func (m *MockOrderRepo) IsVehicleReserved(ctx context.Context, vehicleID int32, startAt, endAt time.Time, excludeOrderID int32) (bool, error) {
	args := m.Called(ctx, vehicleID, startAt, endAt, excludeOrderID)
	return args.Bool(0), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOrderConfirmation(ctx context.Context, email, reference string, total int64) error {
	args := m.Called(ctx, email, reference, total)
	return args.Error(0)
}
func (m *MockEmailService) SendOrderStarted(ctx context.Context, email, reference string) error {
	args := m.Called(ctx, email, reference)
	return args.Error(0)
}
func (m *MockEmailService) SendOrderCompleted(ctx context.Context, email, reference string, total int64) error {
	args := m.Called(ctx, email, reference, total)
	return args.Error(0)
}
func (m *MockEmailService) SendOrderCancelled(ctx context.Context, email, reference, reason string) error {
	args := m.Called(ctx, email, reference, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnReminder(ctx context.Context, email, reference string, endAt time.Time) error {
	args := m.Called(ctx, email, reference, endAt)
	return args.Error(0)
}
