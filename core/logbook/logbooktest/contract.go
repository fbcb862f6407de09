// Package logbooktest holds the behaviour every logbook backend must share.
package logbooktest

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/chargelog/core/logbook"
	"github.com/kilianp07/chargelog/core/model"
)

// Session returns a valid session for vehicle on date.
func Session(id, vehicle string, date time.Time) model.ChargingSession {
	return model.ChargingSession{
		ID:              id,
		VehicleID:       vehicle,
		Odometer:        1000,
		Date:            date,
		TotalCost:       150,
		DurationMinutes: 45,
		LocationName:    "Tesla",
		SiteName:        "Hsinchu",
		EnergyKWh:       25,
	}
}

// Run exercises a backend created by open. open is called once per subtest
// and must return an empty logbook.
func Run(t *testing.T, open func(t *testing.T) logbook.Logbook) {
	t.Run("sessions", func(t *testing.T) { testSessions(t, open(t)) })
	t.Run("vehicles", func(t *testing.T) { testVehicles(t, open(t)) })
}

func ids(sessions []model.ChargingSession) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	sort.Strings(out)
	return out
}

func testSessions(t *testing.T, lb logbook.Logbook) {
	ctx := context.Background()
	defer func() { assert.NoError(t, lb.Close()) }()
	base := time.Date(2024, 4, 1, 8, 30, 0, 0, time.UTC)

	empty, err := lb.LoadAll(ctx, "car")
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, lb.Append(ctx, Session("s1", "car", base)))
	require.NoError(t, lb.Append(ctx, Session("s2", "car", base.AddDate(0, 0, 3))))
	require.NoError(t, lb.Append(ctx, Session("s3", "bike", base)))
	assert.ErrorIs(t, lb.Append(ctx, Session("s1", "car", base)), logbook.ErrDuplicateID)

	got, err := lb.LoadAll(ctx, "car")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, ids(got))

	all, err := lb.LoadAll(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3"}, ids(all))

	rec, err := lb.Get(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, rec.Date.Equal(base.AddDate(0, 0, 3)))
	assert.Equal(t, 25.0, rec.EnergyKWh)

	rec.EnergyKWh = 40
	rec.LocationName = "EVOASIS"
	require.NoError(t, lb.Update(ctx, rec))
	rec, err = lb.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 40.0, rec.EnergyKWh)
	assert.Equal(t, "EVOASIS", rec.LocationName)

	assert.ErrorIs(t, lb.Update(ctx, Session("missing", "car", base)), logbook.ErrNotFound)
	_, err = lb.Get(ctx, "missing")
	assert.ErrorIs(t, err, logbook.ErrNotFound)

	require.NoError(t, lb.Delete(ctx, "s1"))
	assert.ErrorIs(t, lb.Delete(ctx, "s1"), logbook.ErrNotFound)
	got, err = lb.LoadAll(ctx, "car")
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, ids(got))
}

func names(vs []model.Vehicle) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}

func testVehicles(t *testing.T, lb logbook.Logbook) {
	ctx := context.Background()
	defer func() { assert.NoError(t, lb.Close()) }()

	for _, n := range []string{"Model 3", "Ioniq 5", "Leaf"} {
		require.NoError(t, lb.AddVehicle(ctx, model.Vehicle{Name: n}))
	}
	assert.ErrorIs(t, lb.AddVehicle(ctx, model.Vehicle{Name: "Leaf"}), logbook.ErrDuplicateVehicle)
	assert.Error(t, lb.AddVehicle(ctx, model.Vehicle{Name: " "}))

	vs, err := lb.Vehicles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Model 3", "Ioniq 5", "Leaf"}, names(vs))

	require.NoError(t, lb.MoveVehicle(ctx, "Leaf", 0))
	require.NoError(t, lb.SetVehicleImage(ctx, "Ioniq 5", "/img/ioniq.png"))
	vs, err = lb.Vehicles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Leaf", "Model 3", "Ioniq 5"}, names(vs))
	assert.Equal(t, "/img/ioniq.png", vs[2].ImagePath)

	require.NoError(t, lb.RemoveVehicle(ctx, "Model 3"))
	assert.ErrorIs(t, lb.RemoveVehicle(ctx, "Model 3"), logbook.ErrNotFound)
	assert.ErrorIs(t, lb.MoveVehicle(ctx, "Model 3", 1), logbook.ErrNotFound)
	assert.ErrorIs(t, lb.SetVehicleImage(ctx, "Model 3", "x"), logbook.ErrNotFound)
	vs, err = lb.Vehicles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Leaf", "Ioniq 5"}, names(vs))
}
