package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"

	"github.com/lib/pq"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// overlapQuery finds any line item of an active order for the same vehicle
// whose half-open interval intersects [$2, $3). The interval predicate is the
// SQL rendering of domain.Overlaps, which is the normative definition;
// touching endpoints do not count as an overlap. The status set comes from
// domain.ActiveOrderStatuses. $4 excludes an order's own items when it
// re-validates itself during a transition.
var overlapQuery = fmt.Sprintf(`SELECT EXISTS(
	SELECT 1 FROM order_items oi
	JOIN orders o ON o.id = oi.order_id
	WHERE oi.vehicle_id = $1
	  AND o.status IN (%s)
	  AND o.id <> $4
	  AND oi.start_at < $3
	  AND oi.end_at > $2)`, activeStatusList())

func activeStatusList() string {
	quoted := make([]string, len(domain.ActiveOrderStatuses))
	for i, s := range domain.ActiveOrderStatuses {
		quoted[i] = "'" + s.String() + "'"
	}
	return strings.Join(quoted, ", ")
}

// lockVehiclesQuery takes row locks on the vehicles about to be reserved.
// Locking in id order keeps concurrent multi-vehicle checkouts deadlock-free;
// the lock serializes the overlap scan with competing reservations until
// commit.
const lockVehiclesQuery = `SELECT id FROM vehicles WHERE id = ANY($1) ORDER BY id FOR UPDATE`

func (r *orderRepository) CreateReserved(ctx context.Context, order *domain.Order, items []domain.OrderItem, cartID int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockVehicles(ctx, tx, items); err != nil {
		return err
	}

	for i := range items {
		if err := checkAvailable(ctx, tx, &items[i], 0); err != nil {
			return err
		}
	}

	now := time.Now()
	order.Status = domain.OrderStatusDraft
	order.TotalPrice = domain.SumSubtotals(items)
	order.CreatedOn = now
	order.UpdatedOn = now
	insertOrder := `INSERT INTO orders (reference, user_id, status, total_price, notes, contact_email, created_on, updated_on)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err = tx.QueryRowContext(ctx, insertOrder, order.Reference, order.UserID, order.Status,
		order.TotalPrice, order.Notes, order.ContactEmail, now, now).Scan(&order.ID)
	if err != nil {
		return err
	}

	insertItem := `INSERT INTO order_items (order_id, vehicle_id, mode, quantity, start_at, end_at, unit_price, subtotal)
	               VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	for i := range items {
		it := &items[i]
		it.OrderID = order.ID
		err = tx.QueryRowContext(ctx, insertItem, it.OrderID, it.VehicleID, it.Mode,
			it.Quantity, it.StartAt, it.EndAt, it.UnitPrice, it.Subtotal).Scan(&it.ID)
		if err != nil {
			return err
		}
	}

	if cartID != 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE carts SET status=$1, updated_on=$2 WHERE id=$3 AND status=$4`,
			domain.CartStatusConverted, now, cartID, domain.CartStatusActive)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func lockVehicles(ctx context.Context, tx *sql.Tx, items []domain.OrderItem) error {
	ids := make([]int32, 0, len(items))
	seen := make(map[int32]bool, len(items))
	for _, it := range items {
		if !seen[it.VehicleID] {
			seen[it.VehicleID] = true
			ids = append(ids, it.VehicleID)
		}
	}

	rows, err := tx.QueryContext(ctx, lockVehiclesQuery, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return err
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if locked != len(ids) {
		return domain.ErrNotFound
	}
	return nil
}

func checkAvailable(ctx context.Context, tx *sql.Tx, item *domain.OrderItem, excludeOrderID int32) error {
	var reserved bool
	err := tx.QueryRowContext(ctx, overlapQuery, item.VehicleID, item.StartAt, item.EndAt, excludeOrderID).Scan(&reserved)
	if err != nil {
		return err
	}
	if reserved {
		return &domain.ConflictError{VehicleID: item.VehicleID, StartAt: item.StartAt, EndAt: item.EndAt}
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int32) (*domain.Order, []domain.OrderItem, error) {
	order := &domain.Order{}
	query := `SELECT id, reference, user_id, status, total_price, notes, contact_email, started_at, completed_at, cancelled_at, created_on, updated_on
	          FROM orders WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&order.ID, &order.Reference, &order.UserID,
		&order.Status, &order.TotalPrice, &order.Notes, &order.ContactEmail,
		&order.StartedAt, &order.CompletedAt, &order.CancelledAt, &order.CreatedOn, &order.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

func (r *orderRepository) listItems(ctx context.Context, orderID int32) ([]domain.OrderItem, error) {
	query := `SELECT id, order_id, vehicle_id, mode, quantity, start_at, end_at, unit_price, subtotal
	          FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.VehicleID, &it.Mode, &it.Quantity,
			&it.StartAt, &it.EndAt, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Activate is the one transition where a competing booking made since order
// creation could have invalidated the reservation, so the overlap scan runs
// again under the same vehicle locks checkout takes.
func (r *orderRepository) Activate(ctx context.Context, id int32, startedAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status domain.OrderStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != domain.OrderStatusDraft {
		return domain.ErrInvalidTransition
	}

	items, err := listItemsTx(ctx, tx, id)
	if err != nil {
		return err
	}

	if err := lockVehicles(ctx, tx, items); err != nil {
		return err
	}
	for i := range items {
		if err := checkAvailable(ctx, tx, &items[i], id); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status=$1, started_at=$2, updated_on=$3 WHERE id=$4`,
		domain.OrderStatusOngoing, startedAt, time.Now(), id)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func listItemsTx(ctx context.Context, tx *sql.Tx, orderID int32) ([]domain.OrderItem, error) {
	query := `SELECT id, order_id, vehicle_id, mode, quantity, start_at, end_at, unit_price, subtotal
	          FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := tx.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.VehicleID, &it.Mode, &it.Quantity,
			&it.StartAt, &it.EndAt, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *orderRepository) Complete(ctx context.Context, id int32, completedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, completed_at=$2, updated_on=$3 WHERE id=$4 AND status=$5`,
		domain.OrderStatusCompleted, completedAt, time.Now(), id, domain.OrderStatusOngoing)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *orderRepository) Cancel(ctx context.Context, id int32, notes string, cancelledAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status=$1, notes=$2, cancelled_at=$3, updated_on=$4 WHERE id=$5 AND status IN ($6, $7)`,
		domain.OrderStatusCancelled, notes, cancelledAt, time.Now(), id,
		domain.OrderStatusDraft, domain.OrderStatusOngoing)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, reference, user_id, status, total_price, notes, contact_email, started_at, completed_at, cancelled_at, created_on, updated_on
	          FROM orders WHERE user_id = $1`

	args := []interface{}{userID}
	argIdx := 2
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	return r.scanOrders(ctx, query, count, args...)
}

func (r *orderRepository) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Order, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, reference, user_id, status, total_price, notes, contact_email, started_at, completed_at, cancelled_at, created_on, updated_on
	          FROM orders`

	args := []interface{}{}
	argIdx := 1
	if status != "" {
		query += " WHERE status = $1"
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	return r.scanOrders(ctx, query, count, args...)
}

func (r *orderRepository) scanOrders(ctx context.Context, query string, count int32, args ...interface{}) ([]domain.Order, int32, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.Reference, &o.UserID, &o.Status, &o.TotalPrice,
			&o.Notes, &o.ContactEmail, &o.StartedAt, &o.CompletedAt, &o.CancelledAt,
			&o.CreatedOn, &o.UpdatedOn); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, count, rows.Err()
}

func (r *orderRepository) IsVehicleReserved(ctx context.Context, vehicleID int32, startAt, endAt time.Time, excludeOrderID int32) (bool, error) {
	var reserved bool
	err := r.db.QueryRowContext(ctx, overlapQuery, vehicleID, startAt, endAt, excludeOrderID).Scan(&reserved)
	return reserved, err
}
