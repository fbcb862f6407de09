package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/chargelog/core/model"
	"github.com/kilianp07/chargelog/core/stats"
)

func sessions() []model.ChargingSession {
	return []model.ChargingSession{
		{ID: "b", VehicleID: "Leaf", Odometer: 1250.5, Date: time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC),
			TotalCost: 99.9, DurationMinutes: 135, LocationName: "Tesla", SiteName: "Hsinchu, East", EnergyKWh: 30},
		{ID: "a", VehicleID: "Leaf", Odometer: 1000, Date: time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC),
			TotalCost: 150, DurationMinutes: 5, LocationName: "EVOASIS", SiteName: "Taipei", EnergyKWh: 25},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sessions()))
	want := strings.Join([]string{
		"vehicle,odometer,date,total_cost,duration,location,site,energy_kwh",
		"Leaf,1000,2024-03-04,150,00:05,EVOASIS,Taipei,25",
		`Leaf,1250.5,2024-03-10,99.9,02:15,Tesla,"Hsinchu, East",30`,
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "vehicle,odometer,date,total_cost,duration,location,site,energy_kwh\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sessions()[:1]))
	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "Hsinchu, East", out[0]["site_name"])
	assert.Equal(t, 135.0, out[0]["duration_minutes"])
}

func TestWriteYAML(t *testing.T) {
	r := stats.Summarize("Leaf", sessions(), time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), 2)
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, r))
	out := buf.String()
	assert.Contains(t, out, "vehicle_id: Leaf")
	assert.Contains(t, out, "sessions: 2")
	assert.Contains(t, out, "2024-W10")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-12-30", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), d)
	_, err = ParseDate("30/12/2024", time.UTC)
	assert.Error(t, err)
}

func TestParseDay(t *testing.T) {
	d, day, err := ParseDay("2024-05-14")
	require.NoError(t, err)
	assert.True(t, day)
	assert.Equal(t, time.Date(2024, 5, 14, 0, 0, 0, 0, time.Local), d)

	d, day, err = ParseDay("2024-05-14T18:30:00+08:00")
	require.NoError(t, err)
	assert.False(t, day)
	assert.True(t, d.Equal(time.Date(2024, 5, 14, 10, 30, 0, 0, time.UTC)))

	_, _, err = ParseDay("yesterday")
	assert.Error(t, err)
}

func TestParseRange(t *testing.T) {
	since, until, err := ParseRange("", "")
	require.NoError(t, err)
	assert.True(t, since.IsZero())
	assert.True(t, until.IsZero())

	since, until, err = ParseRange("2024-05-01", "2024-05-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local), since)
	assert.Equal(t, time.Date(2024, 5, 14, 23, 59, 59, 999999999, time.Local), until)

	_, until, err = ParseRange("", "2024-05-14T12:00:00Z")
	require.NoError(t, err)
	assert.True(t, until.Equal(time.Date(2024, 5, 14, 12, 0, 0, 0, time.UTC)))

	_, _, err = ParseRange("nope", "")
	assert.ErrorContains(t, err, "since")
	_, _, err = ParseRange("", "nope")
	assert.ErrorContains(t, err, "until")
}
