package stats

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/chargelog/core/model"
)

// TotalOf sums value over sessions. It is 0 for no sessions.
func TotalOf(sessions []model.ChargingSession, value ValueFunc) float64 {
	vals := make([]float64, len(sessions))
	for i, s := range sessions {
		vals[i] = value(s)
	}
	return floats.Sum(vals)
}

// AverageOf is the mean of value over sessions, or 0 for no sessions.
func AverageOf(sessions []model.ChargingSession, value ValueFunc) float64 {
	if len(sessions) == 0 {
		return 0
	}
	return TotalOf(sessions, value) / float64(len(sessions))
}

// LatestSession returns the session with the greatest Date. When several
// share that date the first one in sessions wins.
func LatestSession(sessions []model.ChargingSession) (model.ChargingSession, bool) {
	var latest model.ChargingSession
	found := false
	for _, s := range sessions {
		if !found || s.Date.After(latest.Date) {
			latest = s
			found = true
		}
	}
	return latest, found
}

// CurrentMileage is the odometer reading of the latest session.
func CurrentMileage(sessions []model.ChargingSession) (float64, bool) {
	latest, ok := LatestSession(sessions)
	if !ok {
		return 0, false
	}
	return latest.Odometer, true
}

// EfficiencyKmPerKWh divides the current mileage by the energy charged over
// all sessions. There is no value when no energy was recorded.
func EfficiencyKmPerKWh(sessions []model.ChargingSession) (float64, bool) {
	total := TotalOf(sessions, Energy)
	if total <= 0 {
		return 0, false
	}
	latest, ok := LatestSession(sessions)
	if !ok {
		return 0, false
	}
	return latest.Odometer / total, true
}
