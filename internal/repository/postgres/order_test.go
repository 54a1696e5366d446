package postgres

import (
	"context"
	"testing"
	"time"

	"fleetrent-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestOverlapQueryActiveStatuses(t *testing.T) {
	// The overlap scan must consider exactly the statuses that hold
	// inventory.
	for _, status := range domain.ActiveOrderStatuses {
		assert.Contains(t, overlapQuery, "'"+status.String()+"'")
	}
	assert.NotContains(t, overlapQuery, "'"+domain.OrderStatusCompleted.String()+"'")
	assert.NotContains(t, overlapQuery, "'"+domain.OrderStatusCancelled.String()+"'")
}

func newTestOrder() (*domain.Order, []domain.OrderItem) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	order := &domain.Order{
		Reference:    "ref-42",
		UserID:       1,
		Notes:        "weekend trip",
		ContactEmail: "renter@test.com",
	}
	items := []domain.OrderItem{{
		VehicleID: 7,
		Mode:      domain.BillingModeDaily,
		Quantity:  2,
		StartAt:   start,
		EndAt:     start.AddDate(0, 0, 2),
		UnitPrice: 150000,
		Subtotal:  300000,
	}}
	return order, items
}

func TestOrderRepository_CreateReserved(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewOrderRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		order, items := newTestOrder()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = ANY").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(7), items[0].StartAt, items[0].EndAt, int32(0)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("INSERT INTO orders").
			WithArgs(order.Reference, order.UserID, string(domain.OrderStatusDraft), int64(300000),
				order.Notes, order.ContactEmail, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectQuery("INSERT INTO order_items").
			WithArgs(int32(42), int32(7), string(domain.BillingModeDaily), int32(2),
				items[0].StartAt, items[0].EndAt, int64(150000), int64(300000)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
		mock.ExpectExec("UPDATE carts SET status").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateReserved(ctx, order, items, 5)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), order.ID)
		assert.Equal(t, domain.OrderStatusDraft, order.Status)
		assert.Equal(t, int64(300000), order.TotalPrice)
		assert.Equal(t, int32(100), items[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Overlap rolls everything back", func(t *testing.T) {
		order, items := newTestOrder()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = ANY").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(7), items[0].StartAt, items[0].EndAt, int32(0)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := repo.CreateReserved(ctx, order, items, 5)
		assert.True(t, domain.IsConflict(err))

		var conflict *domain.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, int32(7), conflict.VehicleID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Conflict on the second item drops the whole order", func(t *testing.T) {
		order, items := newTestOrder()
		second := items[0]
		second.VehicleID = 8
		items = append(items, second)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = ANY").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7).AddRow(8))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(7), items[0].StartAt, items[0].EndAt, int32(0)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(8), items[1].StartAt, items[1].EndAt, int32(0)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := repo.CreateReserved(ctx, order, items, 5)

		var conflict *domain.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, int32(8), conflict.VehicleID)
		assert.Zero(t, order.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing vehicle row fails the reservation", func(t *testing.T) {
		order, items := newTestOrder()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = ANY").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.CreateReserved(ctx, order, items, 5)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No cart conversion for cartless checkouts", func(t *testing.T) {
		order, items := newTestOrder()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = ANY").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("INSERT INTO orders").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(43))
		mock.ExpectQuery("INSERT INTO order_items").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
		mock.ExpectCommit()

		err := repo.CreateReserved(ctx, order, items, 0)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_Activate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewOrderRepository(db)
	ctx := context.Background()
	startedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	itemStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	itemEnd := itemStart.AddDate(0, 0, 2)

	itemRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "order_id", "vehicle_id", "mode", "quantity", "start_at", "end_at", "unit_price", "subtotal"}).
			AddRow(100, 42, 7, "daily", 2, itemStart, itemEnd, 150000, 300000)
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM orders WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(42)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("DRAFT"))
		mock.ExpectQuery("SELECT (.+) FROM order_items WHERE order_id = \\$1").
			WithArgs(int32(42)).
			WillReturnRows(itemRows())
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = ANY").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(7), itemStart, itemEnd, int32(42)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("UPDATE orders SET status").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Activate(ctx, 42, startedAt)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not draft", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM orders WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(42)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("ONGOING"))
		mock.ExpectRollback()

		err := repo.Activate(ctx, 42, startedAt)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Competing booking blocks activation", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM orders WHERE id = \\$1 FOR UPDATE").
			WithArgs(int32(42)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("DRAFT"))
		mock.ExpectQuery("SELECT (.+) FROM order_items WHERE order_id = \\$1").
			WithArgs(int32(42)).
			WillReturnRows(itemRows())
		mock.ExpectQuery("SELECT id FROM vehicles WHERE id = ANY").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(7), itemStart, itemEnd, int32(42)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := repo.Activate(ctx, 42, startedAt)
		assert.True(t, domain.IsConflict(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_Complete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewOrderRepository(db)
	ctx := context.Background()
	completedAt := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders SET status").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Complete(ctx, 42, completedAt))
	})

	t.Run("Not ongoing", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders SET status").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Complete(ctx, 42, completedAt), domain.ErrInvalidTransition)
	})
}

func TestOrderRepository_Cancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewOrderRepository(db)
	ctx := context.Background()
	cancelledAt := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders SET status").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Cancel(ctx, 42, "Cancelled: changed plans", cancelledAt))
	})

	t.Run("Already terminal", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders SET status").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Cancel(ctx, 42, "", cancelledAt), domain.ErrInvalidTransition)
	})
}

func TestOrderRepository_IsVehicleReserved(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewOrderRepository(db)
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	t.Run("Reserved", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(7), start, end, int32(0)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		reserved, err := repo.IsVehicleReserved(ctx, 7, start, end, 0)
		assert.NoError(t, err)
		assert.True(t, reserved)
	})

	t.Run("Free", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int32(7), start, end, int32(0)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		reserved, err := repo.IsVehicleReserved(ctx, 7, start, end, 0)
		assert.NoError(t, err)
		assert.False(t, reserved)
	})
}
