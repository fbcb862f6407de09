package app

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/chargelog/core/logbook"
	"github.com/kilianp07/chargelog/core/logger"
	coremetrics "github.com/kilianp07/chargelog/core/metrics"
	coremon "github.com/kilianp07/chargelog/core/monitoring"
	"github.com/kilianp07/chargelog/core/stats"
)

// Refresher recomputes vehicle reports and hands them to the sinks. It reacts
// to logbook changes and also refreshes every vehicle on a fixed interval
// since rolling windows move with the calendar.
type Refresher struct {
	svc      *logbook.Service
	sink     coremetrics.ReportSink
	window   int
	interval time.Duration
	log      logger.Logger
	now      func() time.Time
}

// NewRefresher returns a Refresher. A zero interval disables periodic refreshes.
func NewRefresher(svc *logbook.Service, sink coremetrics.ReportSink, window int, interval time.Duration, log logger.Logger) *Refresher {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Refresher{svc: svc, sink: sink, window: window, interval: interval, log: log, now: time.Now}
}

// RefreshVehicle records the current report of vehicleID.
func (r *Refresher) RefreshVehicle(ctx context.Context, vehicleID string) error {
	sessions, err := r.svc.LoadAll(ctx, vehicleID)
	if err != nil {
		return err
	}
	rep := stats.Summarize(vehicleID, sessions, r.now(), r.window)
	if err := r.sink.RecordReport(vehicleID, rep); err != nil {
		return err
	}
	r.log.Debugw("report recorded", map[string]any{"vehicle": vehicleID, "sessions": rep.Sessions})
	return nil
}

// RefreshAll records the report of every known vehicle.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	ids, err := r.svc.VehicleIDs(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range ids {
		if err := r.RefreshVehicle(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Refresher) handle(ctx context.Context, c logbook.Change) error {
	if c.Kind == logbook.SessionAdded {
		if rec, ok := r.sink.(coremetrics.SessionRecorder); ok {
			s, err := r.svc.Get(ctx, c.SessionID)
			if err == nil {
				err = rec.RecordSession(s)
			}
			if err != nil && !errors.Is(err, logbook.ErrNotFound) {
				return err
			}
		}
	}
	return r.RefreshVehicle(ctx, c.VehicleID)
}

func (r *Refresher) report(err error, tags map[string]string) {
	if err == nil {
		return
	}
	r.log.Errorf("refresh: %v", err)
	coremon.CaptureException(err, tags)
}

// Run refreshes every vehicle, then follows changes until ctx is done or
// changes is closed.
func (r *Refresher) Run(ctx context.Context, changes <-chan logbook.Change) {
	defer coremon.Recover()
	r.report(r.RefreshAll(ctx), map[string]string{"module": "refresher"})

	var tick <-chan time.Time
	if r.interval > 0 {
		t := time.NewTicker(r.interval)
		defer t.Stop()
		tick = t.C
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			r.report(r.RefreshAll(ctx), map[string]string{"module": "refresher"})
		case c, ok := <-changes:
			if !ok {
				return
			}
			r.log.Debugw("logbook changed", map[string]any{"vehicle": c.VehicleID, "kind": c.Kind.String()})
			r.report(r.handle(ctx, c), map[string]string{"module": "refresher", "vehicle": c.VehicleID})
		}
	}
}
