package domain

import "time"

type CartStatus string

const (
	CartStatusActive    CartStatus = "ACTIVE"
	CartStatusConverted CartStatus = "CONVERTED"
)

type Cart struct {
	ID        int32      `json:"id"`
	UserID    int32      `json:"user_id"`
	Status    CartStatus `json:"status"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn time.Time  `json:"updated_on"`
}

// CartItem is a pending line prior to checkout. End date and prices are
// derived from the live rate card when the cart is viewed or converted,
// never stored here.
type CartItem struct {
	ID        int32       `json:"id"`
	CartID    int32       `json:"cart_id"`
	VehicleID int32       `json:"vehicle_id"`
	Mode      BillingMode `json:"mode"`
	Quantity  int32       `json:"quantity"`
	StartAt   time.Time   `json:"start_at"`
	AddedOn   time.Time   `json:"added_on"`
}
