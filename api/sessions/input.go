package sessions

import (
	"fmt"

	"github.com/kilianp07/chargelog/core/model"
	"github.com/kilianp07/chargelog/pkg/export"
)

// sessionInput is the request body of session writes. The duration is given
// either in minutes or as separate hours and minutes; the date either as
// RFC 3339 or as a plain YYYY-MM-DD day.
type sessionInput struct {
	VehicleID       string  `json:"vehicle_id"`
	Odometer        float64 `json:"odometer"`
	Date            string  `json:"date"`
	TotalCost       float64 `json:"total_cost"`
	DurationMinutes int     `json:"duration_minutes"`
	Hours           int     `json:"hours"`
	Minutes         int     `json:"minutes"`
	LocationName    string  `json:"location_name"`
	SiteName        string  `json:"site_name"`
	EnergyKWh       float64 `json:"energy_kwh"`
}

func (in sessionInput) session(vehicleID string) (model.ChargingSession, error) {
	rec := model.ChargingSession{
		VehicleID:       vehicleID,
		Odometer:        in.Odometer,
		TotalCost:       in.TotalCost,
		DurationMinutes: in.DurationMinutes,
		LocationName:    in.LocationName,
		SiteName:        in.SiteName,
		EnergyKWh:       in.EnergyKWh,
	}
	if rec.DurationMinutes == 0 {
		rec.DurationMinutes = model.DurationMinutes(in.Hours, in.Minutes)
	}
	if in.Date == "" {
		return rec, fmt.Errorf("%w: date is required", model.ErrInvalidSession)
	}
	d, _, err := export.ParseDay(in.Date)
	if err != nil {
		return rec, fmt.Errorf("%w: date: %v", model.ErrInvalidSession, err)
	}
	rec.Date = d
	return rec, nil
}
