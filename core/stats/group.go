package stats

import (
	"sort"

	"github.com/kilianp07/chargelog/core/model"
)

// KeyFunc extracts a grouping key from a session.
type KeyFunc func(model.ChargingSession) string

// ValueFunc extracts a numeric metric from a session.
type ValueFunc func(model.ChargingSession) float64

// Common keys.
var (
	ByLocation KeyFunc = func(s model.ChargingSession) string { return s.LocationName }
	BySite     KeyFunc = func(s model.ChargingSession) string { return s.SiteName }
	ByVehicle  KeyFunc = func(s model.ChargingSession) string { return s.VehicleID }
	ByWeek     KeyFunc = func(s model.ChargingSession) string { return CalendarWeekKey(s.Date).String() }
)

// Common metrics.
var (
	Energy   ValueFunc = func(s model.ChargingSession) float64 { return s.EnergyKWh }
	Cost     ValueFunc = func(s model.ChargingSession) float64 { return s.TotalCost }
	Duration ValueFunc = func(s model.ChargingSession) float64 { return float64(s.DurationMinutes) }
	Odometer ValueFunc = func(s model.ChargingSession) float64 { return s.Odometer }
)

// GroupCountByKey counts sessions per key. Every key observed in sessions is
// present in the result.
func GroupCountByKey(sessions []model.ChargingSession, key KeyFunc) map[string]int {
	counts := make(map[string]int)
	for _, s := range sessions {
		counts[key(s)]++
	}
	return counts
}

// GroupSumByKey sums value per key.
func GroupSumByKey(sessions []model.ChargingSession, key KeyFunc, value ValueFunc) map[string]float64 {
	totals := make(map[string]float64)
	for _, s := range sessions {
		totals[key(s)] += value(s)
	}
	return totals
}

// SortedKeys returns the keys of m in lexicographic order. Week keys sort
// chronologically.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
