package utils

import (
	"time"

	"fleetrent-backend/internal/domain"
)

// LineQuote is the derived pricing of one cart or order line.
type LineQuote struct {
	UnitPrice int64
	Subtotal  int64
	EndAt     time.Time
}

// Quote computes the unit price and subtotal for renting at the given rate
// card, billing mode and unit count. This is the single pricing path used by
// both cart views and checkout.
func Quote(rates domain.RateCard, mode domain.BillingMode, quantity int32) (int64, int64, error) {
	if !mode.Valid() {
		return 0, 0, domain.ErrInvalidMode
	}
	if quantity < 1 {
		return 0, 0, domain.ErrInvalidQuantity
	}
	unit := mode.UnitPrice(rates)
	return unit, unit * int64(quantity), nil
}

// EndDate computes the exclusive end of a rental starting at start.
// A month counts as a fixed 30 days.
func EndDate(start time.Time, mode domain.BillingMode, quantity int32) (time.Time, error) {
	if !mode.Valid() {
		return time.Time{}, domain.ErrInvalidMode
	}
	if quantity < 1 {
		return time.Time{}, domain.ErrInvalidQuantity
	}
	if start.IsZero() {
		return time.Time{}, domain.ErrInvalidStartDate
	}
	return start.Add(mode.Duration(quantity)), nil
}

// QuoteLine prices a full line in one call.
func QuoteLine(rates domain.RateCard, mode domain.BillingMode, quantity int32, start time.Time) (LineQuote, error) {
	unit, subtotal, err := Quote(rates, mode, quantity)
	if err != nil {
		return LineQuote{}, err
	}
	end, err := EndDate(start, mode, quantity)
	if err != nil {
		return LineQuote{}, err
	}
	return LineQuote{UnitPrice: unit, Subtotal: subtotal, EndAt: end}, nil
}
