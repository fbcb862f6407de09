package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/chargelog/core/metrics"
	"github.com/kilianp07/chargelog/core/model"
	"github.com/kilianp07/chargelog/core/stats"
)

// PromSink exposes the latest report of every vehicle as Prometheus gauges.
type PromSink struct {
	sessions      *prometheus.GaugeVec
	energy        *prometheus.GaugeVec
	cost          *prometheus.GaugeVec
	avgCost       *prometheus.GaugeVec
	avgEnergy     *prometheus.GaugeVec
	avgDuration   *prometheus.GaugeVec
	mileage       *prometheus.GaugeVec
	efficiency    *prometheus.GaugeVec
	rollingCost   *prometheus.GaugeVec
	rollingEnergy *prometheus.GaugeVec
	recorded      *prometheus.CounterVec
}

// NewPromSink registers the gauges on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func gauge(reg prometheus.Registerer, name, help string, labels ...string) (*prometheus.GaugeVec, error) {
	return register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels))
}

// NewPromSinkWithRegistry registers the gauges on reg. A nil registerer
// defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	gauges := []struct {
		dst    **prometheus.GaugeVec
		name   string
		help   string
		labels []string
	}{
		{&s.sessions, "charging_sessions", "Number of charging sessions logged", []string{"vehicle"}},
		{&s.energy, "charging_energy_kwh_total", "Energy charged over all sessions", []string{"vehicle"}},
		{&s.cost, "charging_cost_total", "Amount paid over all sessions", []string{"vehicle"}},
		{&s.avgCost, "charging_average_cost", "Average cost per session", []string{"vehicle"}},
		{&s.avgEnergy, "charging_average_energy_kwh", "Average energy per session", []string{"vehicle"}},
		{&s.avgDuration, "charging_average_duration_minutes", "Average session duration", []string{"vehicle"}},
		{&s.mileage, "vehicle_odometer_km", "Odometer of the latest session", []string{"vehicle"}},
		{&s.efficiency, "vehicle_km_per_kwh", "Distance per charged kWh", []string{"vehicle"}},
		{&s.rollingCost, "charging_weekly_cost", "Cost per calendar week of the rolling window", []string{"vehicle", "weeks_ago"}},
		{&s.rollingEnergy, "charging_weekly_energy_kwh", "Energy per calendar week of the rolling window", []string{"vehicle", "weeks_ago"}},
	}
	for _, g := range gauges {
		v, err := gauge(reg, g.name, g.help, g.labels...)
		if err != nil {
			return nil, err
		}
		*g.dst = v
	}
	recorded, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "charging_sessions_recorded_total",
		Help: "Sessions recorded since start",
	}, []string{"vehicle"}))
	if err != nil {
		return nil, err
	}
	s.recorded = recorded
	return s, nil
}

// RecordReport replaces the gauges of vehicleID with the values of r.
func (s *PromSink) RecordReport(vehicleID string, r stats.Report) error {
	s.sessions.WithLabelValues(vehicleID).Set(float64(r.Sessions))
	s.energy.WithLabelValues(vehicleID).Set(r.TotalEnergyKWh)
	s.cost.WithLabelValues(vehicleID).Set(r.TotalCost)
	s.avgCost.WithLabelValues(vehicleID).Set(r.AverageCost)
	s.avgEnergy.WithLabelValues(vehicleID).Set(r.AverageEnergyKWh)
	s.avgDuration.WithLabelValues(vehicleID).Set(r.AverageDurationMinutes)
	setOptional(s.mileage, vehicleID, r.CurrentMileage)
	setOptional(s.efficiency, vehicleID, r.KmPerKWh)
	setSeries(s.rollingCost, vehicleID, r.RollingCost)
	setSeries(s.rollingEnergy, vehicleID, r.RollingEnergy)
	return nil
}

// RecordSession counts a newly logged session.
func (s *PromSink) RecordSession(rec model.ChargingSession) error {
	s.recorded.WithLabelValues(rec.VehicleID).Inc()
	return nil
}

func setOptional(g *prometheus.GaugeVec, vehicleID string, v *float64) {
	if v == nil {
		g.DeleteLabelValues(vehicleID)
		return
	}
	g.WithLabelValues(vehicleID).Set(*v)
}

// setSeries labels an oldest-first series with the distance to the current week.
func setSeries(g *prometheus.GaugeVec, vehicleID string, series []float64) {
	g.DeletePartialMatch(prometheus.Labels{"vehicle": vehicleID})
	n := len(series)
	for i, v := range series {
		g.WithLabelValues(vehicleID, strconv.Itoa(n-1-i)).Set(v)
	}
}

var (
	_ coremetrics.ReportSink      = (*PromSink)(nil)
	_ coremetrics.SessionRecorder = (*PromSink)(nil)
)
