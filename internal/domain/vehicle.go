package domain

type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "ACTIVE"
	VehicleStatusMaintenance VehicleStatus = "MAINTENANCE"
	VehicleStatusRetired     VehicleStatus = "RETIRED"
)

// RateCard holds the per-unit rental prices of a vehicle in whole currency
// units. Prices are read-only inputs to pricing; orders snapshot them at
// checkout and never read them again.
type RateCard struct {
	DailyPrice   int64 `json:"daily_price"`
	WeeklyPrice  int64 `json:"weekly_price"`
	MonthlyPrice int64 `json:"monthly_price"`
}

type Vehicle struct {
	ID        int32         `json:"id"`
	Name      string        `json:"name"`
	Brand     string        `json:"brand"`
	Class     string        `json:"class"`
	Rates     RateCard      `json:"rates"`
	Status    VehicleStatus `json:"status"`
	CreatedOn string        `json:"created_on"`
	UpdatedOn string        `json:"updated_on"`
}

// Rentable reports whether the vehicle can appear on a new reservation.
func (v *Vehicle) Rentable() bool {
	return v.Status == VehicleStatusActive
}
