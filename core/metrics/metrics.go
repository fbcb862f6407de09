package metrics

import (
	"errors"

	"github.com/kilianp07/chargelog/core/model"
	"github.com/kilianp07/chargelog/core/stats"
)

// ReportSink receives the latest statistics of a vehicle.
type ReportSink interface {
	RecordReport(vehicleID string, r stats.Report) error
}

// SessionRecorder is implemented by sinks that also want every new session.
type SessionRecorder interface {
	RecordSession(s model.ChargingSession) error
}

// Closer is implemented by sinks holding connections.
type Closer interface {
	Close() error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordReport(string, stats.Report) error   { return nil }
func (NopSink) RecordSession(model.ChargingSession) error { return nil }

// MultiSink fans out to several sinks. Every sink is tried and the errors are
// joined.
type MultiSink struct {
	Sinks []ReportSink
}

func NewMultiSink(sinks ...ReportSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

func (m *MultiSink) RecordReport(vehicleID string, r stats.Report) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordReport(vehicleID, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordSession forwards to the sinks implementing SessionRecorder.
func (m *MultiSink) RecordSession(s model.ChargingSession) error {
	var errs []error
	for _, sink := range m.Sinks {
		if rec, ok := sink.(SessionRecorder); ok {
			if err := rec.RecordSession(s); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes the sinks implementing Closer.
func (m *MultiSink) Close() error {
	var errs []error
	for _, sink := range m.Sinks {
		if c, ok := sink.(Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
