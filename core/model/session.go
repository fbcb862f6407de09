package model

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidSession is wrapped by every validation failure.
var ErrInvalidSession = errors.New("invalid charging session")

// ChargingSession is one charging event of a vehicle.
type ChargingSession struct {
	ID              string    `json:"id"`
	VehicleID       string    `json:"vehicle_id"`
	Odometer        float64   `json:"odometer"`   // km
	Date            time.Time `json:"date"`       // bucketed by day, may carry a time of day
	TotalCost       float64   `json:"total_cost"` // currency agnostic
	DurationMinutes int       `json:"duration_minutes"`
	LocationName    string    `json:"location_name"` // station operator
	SiteName        string    `json:"site_name"`     // specific charging site
	EnergyKWh       float64   `json:"energy_kwh"`
}

// NewSession returns s with a freshly assigned ID.
func NewSession(s ChargingSession) ChargingSession {
	s.ID = uuid.NewString()
	return s
}

// DurationMinutes combines the hours and minutes entered separately.
func DurationMinutes(hours, minutes int) int {
	return hours*60 + minutes
}

// FormattedDuration renders the duration as HH:MM.
func (s ChargingSession) FormattedDuration() string {
	return fmt.Sprintf("%02d:%02d", s.DurationMinutes/60, s.DurationMinutes%60)
}

// Validate checks the session before it is stored. Aggregations assume that
// sessions passed this check: every amount is finite and non-negative and
// the fields required to record a charge are filled in.
//
//gocyclo:ignore
func (s ChargingSession) Validate() error {
	if s.VehicleID == "" {
		return fmt.Errorf("%w: vehicle is required", ErrInvalidSession)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"odometer", s.Odometer},
		{"total_cost", s.TotalCost},
		{"energy_kwh", s.EnergyKWh},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidSession, f.name)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidSession, f.name)
		}
	}
	if s.Odometer == 0 {
		return fmt.Errorf("%w: odometer is required", ErrInvalidSession)
	}
	if s.LocationName == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidSession)
	}
	if s.SiteName == "" {
		return fmt.Errorf("%w: site is required", ErrInvalidSession)
	}
	if s.EnergyKWh == 0 {
		return fmt.Errorf("%w: energy is required", ErrInvalidSession)
	}
	if s.TotalCost == 0 {
		return fmt.Errorf("%w: total cost is required", ErrInvalidSession)
	}
	if s.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidSession)
	}
	if s.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidSession)
	}
	return nil
}

// FilterByVehicle returns the sessions owned by vehicleID. The input slice is
// left untouched.
func FilterByVehicle(sessions []ChargingSession, vehicleID string) []ChargingSession {
	res := make([]ChargingSession, 0, len(sessions))
	for _, s := range sessions {
		if s.VehicleID == vehicleID {
			res = append(res, s)
		}
	}
	return res
}

// FilterByDate keeps sessions within [since, until]. A zero bound is open.
func FilterByDate(sessions []ChargingSession, since, until time.Time) []ChargingSession {
	res := make([]ChargingSession, 0, len(sessions))
	for _, s := range sessions {
		if !since.IsZero() && s.Date.Before(since) {
			continue
		}
		if !until.IsZero() && s.Date.After(until) {
			continue
		}
		res = append(res, s)
	}
	return res
}
