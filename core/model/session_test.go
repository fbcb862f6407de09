package model

import (
	"errors"
	"math"
	"testing"
	"time"
)

func validSession() ChargingSession {
	return ChargingSession{
		VehicleID:       "model3",
		Odometer:        12000,
		Date:            time.Date(2024, 5, 6, 18, 30, 0, 0, time.UTC),
		TotalCost:       210,
		DurationMinutes: DurationMinutes(1, 15),
		LocationName:    "Tesla",
		SiteName:        "Taipei 101",
		EnergyKWh:       32.5,
	}
}

func TestValidate(t *testing.T) {
	if err := validSession().Validate(); err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}
	cases := []struct {
		name string
		mut  func(*ChargingSession)
	}{
		{"no vehicle", func(s *ChargingSession) { s.VehicleID = "" }},
		{"zero odometer", func(s *ChargingSession) { s.Odometer = 0 }},
		{"negative cost", func(s *ChargingSession) { s.TotalCost = -1 }},
		{"nan energy", func(s *ChargingSession) { s.EnergyKWh = math.NaN() }},
		{"inf odometer", func(s *ChargingSession) { s.Odometer = math.Inf(1) }},
		{"zero energy", func(s *ChargingSession) { s.EnergyKWh = 0 }},
		{"zero cost", func(s *ChargingSession) { s.TotalCost = 0 }},
		{"no location", func(s *ChargingSession) { s.LocationName = "" }},
		{"no site", func(s *ChargingSession) { s.SiteName = "" }},
		{"negative duration", func(s *ChargingSession) { s.DurationMinutes = -5 }},
		{"no date", func(s *ChargingSession) { s.Date = time.Time{} }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := validSession()
			c.mut(&s)
			err := s.Validate()
			if !errors.Is(err, ErrInvalidSession) {
				t.Fatalf("expected ErrInvalidSession, got %v", err)
			}
		})
	}
}

func TestValidateReportsFirstBadAmount(t *testing.T) {
	s := validSession()
	s.Odometer = -1
	s.TotalCost = math.NaN()
	s.EnergyKWh = math.Inf(-1)
	want := "invalid charging session: odometer must not be negative"
	for i := 0; i < 20; i++ {
		if err := s.Validate(); err == nil || err.Error() != want {
			t.Fatalf("run %d: expected %q, got %v", i, want, err)
		}
	}
}

func TestDurationFormatting(t *testing.T) {
	s := ChargingSession{DurationMinutes: DurationMinutes(2, 5)}
	if s.DurationMinutes != 125 {
		t.Fatalf("expected 125 got %d", s.DurationMinutes)
	}
	if got := s.FormattedDuration(); got != "02:05" {
		t.Fatalf("expected 02:05 got %s", got)
	}
}

func TestNewSessionAssignsUniqueIDs(t *testing.T) {
	a := NewSession(validSession())
	b := NewSession(validSession())
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %q and %q", a.ID, b.ID)
	}
}

func TestFilters(t *testing.T) {
	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	sessions := []ChargingSession{
		{ID: "1", VehicleID: "a", Date: base},
		{ID: "2", VehicleID: "b", Date: base.AddDate(0, 0, 1)},
		{ID: "3", VehicleID: "a", Date: base.AddDate(0, 0, 2)},
	}
	if got := FilterByVehicle(sessions, "a"); len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Fatalf("unexpected vehicle filter result %+v", got)
	}
	if got := FilterByDate(sessions, base.AddDate(0, 0, 1), time.Time{}); len(got) != 2 {
		t.Fatalf("expected 2 sessions since day 1, got %d", len(got))
	}
	if got := FilterByDate(sessions, time.Time{}, base); len(got) != 1 {
		t.Fatalf("expected 1 session until base, got %d", len(got))
	}
}

func TestMoveVehicle(t *testing.T) {
	vs := []Vehicle{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	got := MoveVehicle(vs, 0, 2)
	if got[0].Name != "b" || got[1].Name != "c" || got[2].Name != "a" {
		t.Fatalf("unexpected order %+v", got)
	}
	if vs[0].Name != "a" {
		t.Fatalf("input mutated")
	}
	got = MoveVehicle(vs, 2, -3)
	if got[0].Name != "c" {
		t.Fatalf("expected clamp to front, got %+v", got)
	}
}
