package stats

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/kilianp07/chargelog/core/model"
)

// DefaultWindowSize is the number of weeks shown in rolling series.
const DefaultWindowSize = 4

// MaxWindowSize caps rolling series at ten years of weeks.
const MaxWindowSize = 520

// ErrWindowSize is returned by ValidateWindowSize.
var ErrWindowSize = errors.New("invalid window size")

// ValidateWindowSize checks that n weeks can be requested from outside
// callers: zero (empty series) up to MaxWindowSize.
func ValidateWindowSize(n int) error {
	if n < 0 || n > MaxWindowSize {
		return fmt.Errorf("%w: %d is outside 0..%d", ErrWindowSize, n, MaxWindowSize)
	}
	return nil
}

// WeekKey identifies an ISO 8601 week. Year is the ISO week-year, which
// differs from the calendar year for the first and last days of some years.
type WeekKey struct {
	Year int
	Week int
}

// CalendarWeekKey returns the ISO week containing t, evaluated in t's location.
func CalendarWeekKey(t time.Time) WeekKey {
	y, w := t.ISOWeek()
	return WeekKey{Year: y, Week: w}
}

// String renders the key as YYYY-Www.
func (k WeekKey) String() string {
	return fmt.Sprintf("%04d-W%02d", k.Year, k.Week)
}

// Start returns Monday 00:00 UTC of the week.
func (k WeekKey) Start() time.Time {
	// Week 1 is the week holding January 4th.
	jan4 := time.Date(k.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset+(k.Week-1)*7)
}

// WeeksBetween returns how many weeks from precedes to. It is negative when
// from lies after to.
func WeeksBetween(from, to WeekKey) int {
	days := int(to.Start().Sub(from.Start()) / (24 * time.Hour))
	return days / 7
}

// RollingWeeklySeries sums metric over the windowSize weeks ending with the
// week containing ref. The result is ordered oldest week first and always has
// windowSize entries; sessions outside the window are ignored. A windowSize of
// zero or less yields an empty series.
func RollingWeeklySeries(sessions []model.ChargingSession, metric ValueFunc, windowSize int, ref time.Time) []float64 {
	if windowSize <= 0 {
		return []float64{}
	}
	series := make([]float64, windowSize)
	current := CalendarWeekKey(ref)
	for _, s := range sessions {
		idx := WeeksBetween(CalendarWeekKey(s.Date), current)
		if idx < 0 || idx >= windowSize {
			continue
		}
		series[idx] += metric(s)
	}
	slices.Reverse(series)
	return series
}

// RollingWeekLabels returns the week keys covered by RollingWeeklySeries for
// the same windowSize and ref, oldest first.
func RollingWeekLabels(windowSize int, ref time.Time) []string {
	if windowSize <= 0 {
		return []string{}
	}
	current := CalendarWeekKey(ref).Start()
	labels := make([]string, windowSize)
	for i := range labels {
		weeksAgo := windowSize - 1 - i
		labels[i] = CalendarWeekKey(current.AddDate(0, 0, -7*weeksAgo)).String()
	}
	return labels
}
