package stats

import (
	"time"

	"github.com/kilianp07/chargelog/core/model"
)

// Report gathers every statistic shown for a vehicle at a reference time.
// Optional values are nil when they cannot be computed.
type Report struct {
	VehicleID   string    `json:"vehicle_id" yaml:"vehicle_id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	WindowSize  int       `json:"window_size" yaml:"window_size"`
	Sessions    int       `json:"sessions" yaml:"sessions"`

	CountByLocation  map[string]int     `json:"count_by_location" yaml:"count_by_location"`
	EnergyByLocation map[string]float64 `json:"energy_by_location" yaml:"energy_by_location"`
	CountBySite      map[string]int     `json:"count_by_site" yaml:"count_by_site"`
	CostByWeek       map[string]float64 `json:"cost_by_week" yaml:"cost_by_week"`
	EnergyByWeek     map[string]float64 `json:"energy_by_week" yaml:"energy_by_week"`

	RollingWeeks  []string  `json:"rolling_weeks" yaml:"rolling_weeks"`
	RollingCost   []float64 `json:"rolling_cost" yaml:"rolling_cost"`
	RollingEnergy []float64 `json:"rolling_energy" yaml:"rolling_energy"`

	TotalEnergyKWh         float64 `json:"total_energy_kwh" yaml:"total_energy_kwh"`
	TotalCost              float64 `json:"total_cost" yaml:"total_cost"`
	AverageCost            float64 `json:"average_cost" yaml:"average_cost"`
	AverageEnergyKWh       float64 `json:"average_energy_kwh" yaml:"average_energy_kwh"`
	AverageDurationMinutes float64 `json:"average_duration_minutes" yaml:"average_duration_minutes"`

	CurrentMileage *float64               `json:"current_mileage" yaml:"current_mileage"`
	KmPerKWh       *float64               `json:"km_per_kwh" yaml:"km_per_kwh"`
	Latest         *model.ChargingSession `json:"latest,omitempty" yaml:"latest,omitempty"`
}

// Summarize computes the Report of sessions, which must already be filtered to
// vehicleID. windowSize sizes the rolling series ending at ref.
func Summarize(vehicleID string, sessions []model.ChargingSession, ref time.Time, windowSize int) Report {
	r := Report{
		VehicleID:   vehicleID,
		GeneratedAt: ref,
		WindowSize:  windowSize,
		Sessions:    len(sessions),

		CountByLocation:  GroupCountByKey(sessions, ByLocation),
		EnergyByLocation: GroupSumByKey(sessions, ByLocation, Energy),
		CountBySite:      GroupCountByKey(sessions, BySite),
		CostByWeek:       GroupSumByKey(sessions, ByWeek, Cost),
		EnergyByWeek:     GroupSumByKey(sessions, ByWeek, Energy),

		RollingWeeks:  RollingWeekLabels(windowSize, ref),
		RollingCost:   RollingWeeklySeries(sessions, Cost, windowSize, ref),
		RollingEnergy: RollingWeeklySeries(sessions, Energy, windowSize, ref),

		TotalEnergyKWh:         TotalOf(sessions, Energy),
		TotalCost:              TotalOf(sessions, Cost),
		AverageCost:            AverageOf(sessions, Cost),
		AverageEnergyKWh:       AverageOf(sessions, Energy),
		AverageDurationMinutes: AverageOf(sessions, Duration),
	}
	if v, ok := CurrentMileage(sessions); ok {
		r.CurrentMileage = &v
	}
	if v, ok := EfficiencyKmPerKWh(sessions); ok {
		r.KmPerKWh = &v
	}
	if latest, ok := LatestSession(sessions); ok {
		r.Latest = &latest
	}
	return r
}
