// Package app wires the logbook, the report sinks and the HTTP API into the
// long running chargelog service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kilianp07/chargelog/api/sessions"
	"github.com/kilianp07/chargelog/config"
	"github.com/kilianp07/chargelog/core/logbook"
	coremetrics "github.com/kilianp07/chargelog/core/metrics"
	infralogbook "github.com/kilianp07/chargelog/infra/logbook"
	"github.com/kilianp07/chargelog/infra/logger"
	"github.com/kilianp07/chargelog/infra/metrics"
	_ "github.com/kilianp07/chargelog/infra/mqtt"
	"github.com/kilianp07/chargelog/internal/eventbus"
)

// Service is the running chargelog server.
type Service struct {
	Logbook   *logbook.Service
	store     logbook.Logbook
	bus       *eventbus.Bus[logbook.Change]
	sink      coremetrics.ReportSink
	refresher *Refresher
	cfg       *config.Config
	log       logger.Logger
}

// OpenLogbook opens the configured backend without sinks or event bus, as
// used by one-shot CLI commands.
func OpenLogbook(cfg *config.Config) (*logbook.Service, error) {
	store, err := infralogbook.Open(cfg.Store.Module())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return logbook.NewService(store, nil), nil
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("service")
	store, err := infralogbook.Open(cfg.Store.Module())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}
	bus := eventbus.New[logbook.Change]()
	svc := logbook.NewService(store, bus)
	refresher := NewRefresher(svc, sink, cfg.Stats.WindowSize, cfg.Stats.RefreshInterval(), logger.New("refresher"))
	log.Infof("logbook %s opened, %d sink(s) configured", cfg.Store.Type, len(cfg.Metrics.Sinks))
	return &Service{
		Logbook:   svc,
		store:     store,
		bus:       bus,
		sink:      sink,
		refresher: refresher,
		cfg:       cfg,
		log:       log,
	}, nil
}

// Handler returns the HTTP API. /metrics is included when Prometheus is
// enabled without a dedicated listener.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	sessions.NewHandler(s.Logbook, s.cfg.Stats.WindowSize, logger.New("api")).Register(mux)
	if s.cfg.Metrics.Enabled("prometheus") && s.cfg.Metrics.PrometheusAddress == "" {
		mux.Handle("GET /metrics", metrics.Handler())
	}
	return mux
}

// Run serves the API and refreshes reports until ctx is cancelled. It
// returns once the refresher and the Prometheus listener have stopped, so the
// store can be closed right after.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	changes := s.bus.Subscribe()
	defer func() {
		cancel()
		wg.Wait()
		s.bus.Unsubscribe(changes)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.refresher.Run(ctx, changes)
	}()

	if s.cfg.Metrics.Enabled("prometheus") && s.cfg.Metrics.PrometheusAddress != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddress); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.HTTP.Address, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
	}()
	s.log.Infof("listening on %s", s.cfg.HTTP.Address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the sinks and the store.
func (s *Service) Close() error {
	s.bus.Close()
	var errs []error
	if c, ok := s.sink.(coremetrics.Closer); ok {
		errs = append(errs, c.Close())
	}
	errs = append(errs, s.store.Close())
	return errors.Join(errs...)
}
