// Package memory provides the session-backed cart storage used for guest
// flows. It implements the same CartRepository contract as the Postgres
// backend so the cart service stays storage-agnostic.
package memory

import (
	"context"
	"sync"
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"
)

type cartStore struct {
	mu     sync.Mutex
	nextID int32
	carts  map[int32]*cartState // keyed by user id
}

type cartState struct {
	cart  domain.Cart
	items []domain.CartItem
}

func NewCartRepository() repository.CartRepository {
	return &cartStore{carts: make(map[int32]*cartState)}
}

func (s *cartStore) GetActiveByUser(ctx context.Context, userID int32) (*domain.Cart, []domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.activeLocked(userID)
	cart := st.cart
	items := make([]domain.CartItem, len(st.items))
	copy(items, st.items)
	return &cart, items, nil
}

// activeLocked returns the user's active cart state, creating one when the
// user has none or their previous cart was converted.
func (s *cartStore) activeLocked(userID int32) *cartState {
	if st, ok := s.carts[userID]; ok && st.cart.Status == domain.CartStatusActive {
		return st
	}
	s.nextID++
	now := time.Now()
	st := &cartState{cart: domain.Cart{
		ID:        s.nextID,
		UserID:    userID,
		Status:    domain.CartStatusActive,
		CreatedOn: now,
		UpdatedOn: now,
	}}
	s.carts[userID] = st
	return st
}

func (s *cartStore) AddItem(ctx context.Context, cartID int32, item *domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.findLocked(cartID)
	if err != nil {
		return err
	}
	for _, it := range st.items {
		if it.VehicleID == item.VehicleID {
			return domain.ErrDuplicateCartItem
		}
	}
	s.nextID++
	item.ID = s.nextID
	item.CartID = cartID
	item.AddedOn = time.Now()
	st.items = append(st.items, *item)
	st.cart.UpdatedOn = item.AddedOn
	return nil
}

func (s *cartStore) UpdateItem(ctx context.Context, cartID, vehicleID int32, mode domain.BillingMode, quantity int32, startAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.findLocked(cartID)
	if err != nil {
		return err
	}
	for i := range st.items {
		if st.items[i].VehicleID == vehicleID {
			st.items[i].Mode = mode
			st.items[i].Quantity = quantity
			st.items[i].StartAt = startAt
			st.cart.UpdatedOn = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *cartStore) RemoveItem(ctx context.Context, cartID, vehicleID int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.findLocked(cartID)
	if err != nil {
		return err
	}
	for i := range st.items {
		if st.items[i].VehicleID == vehicleID {
			st.items = append(st.items[:i], st.items[i+1:]...)
			st.cart.UpdatedOn = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *cartStore) MarkConverted(ctx context.Context, cartID int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range s.carts {
		if st.cart.ID == cartID {
			st.cart.Status = domain.CartStatusConverted
			st.items = nil
			st.cart.UpdatedOn = time.Now()
			return nil
		}
	}
	return nil
}

func (s *cartStore) findLocked(cartID int32) (*cartState, error) {
	for _, st := range s.carts {
		if st.cart.ID == cartID && st.cart.Status == domain.CartStatusActive {
			return st, nil
		}
	}
	return nil, domain.ErrNotFound
}
