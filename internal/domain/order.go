package domain

import "time"

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusOngoing   OrderStatus = "ONGOING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// ActiveOrderStatuses are the statuses during which an order's line items
// hold real vehicle inventory. The availability overlap scan only considers
// orders in these statuses.
var ActiveOrderStatuses = []OrderStatus{OrderStatusDraft, OrderStatusOngoing}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func (s OrderStatus) Active() bool {
	for _, st := range ActiveOrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

type Order struct {
	ID           int32       `json:"id"`
	Reference    string      `json:"reference"`
	UserID       int32       `json:"user_id"`
	Status       OrderStatus `json:"status"`
	TotalPrice   int64       `json:"total_price"`
	Notes        string      `json:"notes"`
	ContactEmail string      `json:"contact_email,omitempty"`
	StartedAt    *time.Time  `json:"started_at,omitempty"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
	CancelledAt  *time.Time  `json:"cancelled_at,omitempty"`
	CreatedOn    time.Time   `json:"created_on"`
	UpdatedOn    time.Time   `json:"updated_on"`
}

// OrderItem is a frozen snapshot of a cart line at checkout time. Prices are
// captured from the vehicle's rate card at conversion and never recomputed.
type OrderItem struct {
	ID        int32       `json:"id"`
	OrderID   int32       `json:"order_id"`
	VehicleID int32       `json:"vehicle_id"`
	Mode      BillingMode `json:"mode"`
	Quantity  int32       `json:"quantity"`
	StartAt   time.Time   `json:"start_at"`
	EndAt     time.Time   `json:"end_at"`
	UnitPrice int64       `json:"unit_price"`
	Subtotal  int64       `json:"subtotal"`
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any point in time. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// LatestEnd returns the latest end across the order's items; the order can
// only be completed once this moment has passed.
func LatestEnd(items []OrderItem) time.Time {
	var latest time.Time
	for _, it := range items {
		if it.EndAt.After(latest) {
			latest = it.EndAt
		}
	}
	return latest
}

// SumSubtotals recomputes the order total from its line items. The stored
// total must always equal this value.
func SumSubtotals(items []OrderItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Subtotal
	}
	return total
}
