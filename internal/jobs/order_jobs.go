package jobs

import (
	"context"
	"time"

	"fleetrent-backend/internal/logger"
)

// CancelStaleDrafts cancels draft orders whose rental period already started
// without staff approval, releasing the held vehicles back to inventory.
func (jr *JobRunner) CancelStaleDrafts() {
	jr.runWithRecovery("CancelStaleDrafts", func() {
		ctx := context.Background()

		query := `
			UPDATE orders
			SET status = 'CANCELLED',
			    cancelled_at = NOW(),
			    notes = TRIM(BOTH E'\n' FROM notes || E'\nCancelled: not approved before start date'),
			    updated_on = NOW()
			WHERE status = 'DRAFT'
			  AND EXISTS (
			      SELECT 1 FROM order_items oi
			      WHERE oi.order_id = orders.id AND oi.start_at < $1
			  )
			RETURNING id, reference, contact_email
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now())
		if err != nil {
			logger.Error("Failed to cancel stale draft orders", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				id           int32
				reference    string
				contactEmail string
			)
			if err := rows.Scan(&id, &reference, &contactEmail); err != nil {
				logger.Error("Failed to scan cancelled draft", "error", err)
				continue
			}
			count++
			logger.Info("Cancelled stale draft order", "order_id", id, "reference", reference)
			if contactEmail != "" {
				if err := jr.email.SendOrderCancelled(ctx, contactEmail, reference, "not approved before start date"); err != nil {
					logger.Error("Failed to send cancellation email", "order_id", id, "error", err)
				}
			}
		}
		logger.Info("Stale draft sweep finished", "cancelled", count)
	})
}

// SendReturnReminders emails customers whose ongoing rentals have passed
// their end date without being completed.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()

		query := `
			SELECT o.id, o.reference, o.contact_email, MAX(oi.end_at) AS latest_end
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.status = 'ONGOING'
			GROUP BY o.id, o.reference, o.contact_email
			HAVING MAX(oi.end_at) < $1
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue orders", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				id           int32
				reference    string
				contactEmail string
				latestEnd    time.Time
			)
			if err := rows.Scan(&id, &reference, &contactEmail, &latestEnd); err != nil {
				logger.Error("Failed to scan overdue order", "error", err)
				continue
			}
			count++
			logger.Warn("Order overdue", "order_id", id, "reference", reference, "ended", latestEnd)
			if contactEmail != "" {
				if err := jr.email.SendReturnReminder(ctx, contactEmail, reference, latestEnd); err != nil {
					logger.Error("Failed to send return reminder", "order_id", id, "error", err)
				}
			}
		}
		logger.Info("Return reminder sweep finished", "overdue", count)
	})
}
