package domain

import "time"

// BillingMode is the unit of rental duration pricing.
type BillingMode string

const (
	BillingModeDaily   BillingMode = "daily"
	BillingModeWeekly  BillingMode = "weekly"
	BillingModeMonthly BillingMode = "monthly"
)

// ParseBillingMode validates and normalizes a mode string coming off the wire.
func ParseBillingMode(s string) (BillingMode, error) {
	switch BillingMode(s) {
	case BillingModeDaily, BillingModeWeekly, BillingModeMonthly:
		return BillingMode(s), nil
	default:
		return "", ErrInvalidMode
	}
}

func (m BillingMode) Valid() bool {
	switch m {
	case BillingModeDaily, BillingModeWeekly, BillingModeMonthly:
		return true
	}
	return false
}

// Duration returns the rented span for the given unit count. A month is a
// fixed 30 days, not a calendar month.
func (m BillingMode) Duration(quantity int32) time.Duration {
	day := 24 * time.Hour
	switch m {
	case BillingModeWeekly:
		return time.Duration(quantity) * 7 * day
	case BillingModeMonthly:
		return time.Duration(quantity) * 30 * day
	default:
		return time.Duration(quantity) * day
	}
}

// UnitPrice picks the rate card entry for this mode.
func (m BillingMode) UnitPrice(rates RateCard) int64 {
	switch m {
	case BillingModeWeekly:
		return rates.WeeklyPrice
	case BillingModeMonthly:
		return rates.MonthlyPrice
	default:
		return rates.DailyPrice
	}
}
