// Package export writes charging sessions and reports in portable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/chargelog/core/model"
)

// DateLayout formats session dates in CSV output.
const DateLayout = "2006-01-02"

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{"vehicle", "odometer", "date", "total_cost", "duration", "location", "site", "energy_kwh"}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteCSV writes sessions oldest first with a header row. Durations are
// rendered as HH:MM.
func WriteCSV(w io.Writer, sessions []model.ChargingSession) error {
	sorted := slices.Clone(sessions)
	slices.SortStableFunc(sorted, func(a, b model.ChargingSession) int {
		return a.Date.Compare(b.Date)
	})
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, s := range sorted {
		rec := []string{
			s.VehicleID,
			formatFloat(s.Odometer),
			s.Date.Format(DateLayout),
			formatFloat(s.TotalCost),
			s.FormattedDuration(),
			s.LocationName,
			s.SiteName,
			formatFloat(s.EnergyKWh),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// ParseDate parses a date in DateLayout in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// ParseDay accepts an RFC 3339 timestamp or a DateLayout day in local time.
// day reports whether s was a plain day.
func ParseDay(s string) (t time.Time, day bool, err error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err = ParseDate(s, time.Local)
	return t, err == nil, err
}

// ParseRange parses optional since and until bounds for model.FilterByDate.
// Empty bounds stay zero. An until given as a plain day covers that whole day.
func ParseRange(since, until string) (from, to time.Time, err error) {
	if since != "" {
		if from, _, err = ParseDay(since); err != nil {
			return from, to, fmt.Errorf("since: %w", err)
		}
	}
	if until != "" {
		var day bool
		if to, day, err = ParseDay(until); err != nil {
			return from, to, fmt.Errorf("until: %w", err)
		}
		if day {
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
	}
	return from, to, nil
}
