package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code raised by the
// (cart_id, vehicle_id) unique constraint on cart_items.
const uniqueViolation = "23505"

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetActiveByUser(ctx context.Context, userID int32) (*domain.Cart, []domain.CartItem, error) {
	cart := &domain.Cart{}
	query := `SELECT id, user_id, status, created_on, updated_on FROM carts WHERE user_id = $1 AND status = $2`
	err := r.db.QueryRowContext(ctx, query, userID, domain.CartStatusActive).
		Scan(&cart.ID, &cart.UserID, &cart.Status, &cart.CreatedOn, &cart.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		insert := `INSERT INTO carts (user_id, status, created_on, updated_on) VALUES ($1, $2, $3, $4) RETURNING id, created_on, updated_on`
		cart.UserID = userID
		cart.Status = domain.CartStatusActive
		err = r.db.QueryRowContext(ctx, insert, userID, domain.CartStatusActive, time.Now(), time.Now()).
			Scan(&cart.ID, &cart.CreatedOn, &cart.UpdatedOn)
		if err != nil {
			return nil, nil, err
		}
		return cart, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	items, err := r.listItems(ctx, cart.ID)
	if err != nil {
		return nil, nil, err
	}
	return cart, items, nil
}

func (r *cartRepository) listItems(ctx context.Context, cartID int32) ([]domain.CartItem, error) {
	query := `SELECT id, cart_id, vehicle_id, mode, quantity, start_at, added_on FROM cart_items WHERE cart_id = $1 ORDER BY added_on`
	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.VehicleID, &it.Mode, &it.Quantity, &it.StartAt, &it.AddedOn); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *cartRepository) AddItem(ctx context.Context, cartID int32, item *domain.CartItem) error {
	query := `INSERT INTO cart_items (cart_id, vehicle_id, mode, quantity, start_at, added_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, cartID, item.VehicleID, item.Mode, item.Quantity, item.StartAt, time.Now()).Scan(&item.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrDuplicateCartItem
	}
	if err != nil {
		return err
	}
	item.CartID = cartID
	return nil
}

func (r *cartRepository) UpdateItem(ctx context.Context, cartID, vehicleID int32, mode domain.BillingMode, quantity int32, startAt time.Time) error {
	query := `UPDATE cart_items SET mode=$1, quantity=$2, start_at=$3 WHERE cart_id=$4 AND vehicle_id=$5`
	res, err := r.db.ExecContext(ctx, query, mode, quantity, startAt, cartID, vehicleID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID, vehicleID int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id=$1 AND vehicle_id=$2`, cartID, vehicleID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *cartRepository) MarkConverted(ctx context.Context, cartID int32) error {
	// Idempotent: checkout already converts the row in its own transaction.
	_, err := r.db.ExecContext(ctx,
		`UPDATE carts SET status=$1, updated_on=$2 WHERE id=$3 AND status=$4`,
		domain.CartStatusConverted, time.Now(), cartID, domain.CartStatusActive)
	return err
}
