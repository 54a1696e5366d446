package service

import (
	"context"
	"fmt"
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/logger"
	"fleetrent-backend/internal/repository"
)

type orderService struct {
	orderRepo repository.OrderRepository
	emailSvc  EmailService
	now       func() time.Time
}

func NewOrderService(orderRepo repository.OrderRepository, emailSvc EmailService) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		emailSvc:  emailSvc,
		now:       time.Now,
	}
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID int32) (*domain.Order, []domain.OrderItem, error) {
	order, items, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.UserID != userID {
		return nil, nil, domain.ErrNotFound
	}
	return order, items, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	return s.orderRepo.ListByUser(ctx, userID, status, page, pageSize)
}

func (s *orderService) ListAllOrders(ctx context.Context, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	return s.orderRepo.List(ctx, status, page, pageSize)
}

// StartOrder approves a draft and activates its reservations. Availability is
// re-checked at this point: a competing booking made since checkout fails the
// transition with a conflict and the order stays draft.
func (s *orderService) StartOrder(ctx context.Context, orderID int32) (*domain.Order, error) {
	order, _, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusDraft {
		return nil, fmt.Errorf("start order %d from %s: %w", orderID, order.Status, domain.ErrInvalidTransition)
	}

	if err := s.orderRepo.Activate(ctx, orderID, s.now()); err != nil {
		return nil, err
	}

	order, _, err = s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, order, func(email string) error {
		return s.emailSvc.SendOrderStarted(ctx, email, order.Reference)
	})
	return order, nil
}

func (s *orderService) CompleteOrder(ctx context.Context, orderID int32) (*domain.Order, error) {
	order, items, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusOngoing {
		return nil, fmt.Errorf("complete order %d from %s: %w", orderID, order.Status, domain.ErrInvalidTransition)
	}
	if s.now().Before(domain.LatestEnd(items)) {
		return nil, domain.ErrNotYetCompletable
	}

	if err := s.orderRepo.Complete(ctx, orderID, s.now()); err != nil {
		return nil, err
	}

	order, _, err = s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, order, func(email string) error {
		return s.emailSvc.SendOrderCompleted(ctx, email, order.Reference, order.TotalPrice)
	})
	return order, nil
}

func (s *orderService) CancelOrder(ctx context.Context, orderID int32, reason string) (*domain.Order, error) {
	order, _, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.Active() {
		return nil, fmt.Errorf("cancel order %d from %s: %w", orderID, order.Status, domain.ErrInvalidTransition)
	}

	notes := order.Notes
	if reason != "" {
		if notes != "" {
			notes += "\n"
		}
		notes += "Cancelled: " + reason
	}
	if err := s.orderRepo.Cancel(ctx, orderID, notes, s.now()); err != nil {
		return nil, err
	}

	order, _, err = s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, order, func(email string) error {
		return s.emailSvc.SendOrderCancelled(ctx, email, order.Reference, reason)
	})
	return order, nil
}

func (s *orderService) CheckAvailability(ctx context.Context, vehicleID int32, startAt, endAt time.Time) (bool, error) {
	if !endAt.After(startAt) {
		return false, domain.ErrInvalidStartDate
	}
	reserved, err := s.orderRepo.IsVehicleReserved(ctx, vehicleID, startAt, endAt, 0)
	if err != nil {
		return false, err
	}
	return !reserved, nil
}

// notify sends a lifecycle email when the order carries a contact address.
// Delivery failures never fail the transition.
func (s *orderService) notify(ctx context.Context, order *domain.Order, send func(email string) error) {
	if order.ContactEmail == "" {
		return
	}
	if err := send(order.ContactEmail); err != nil {
		logger.Error("Failed to send order notification", "order_id", order.ID, "error", err)
	}
}
