package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/chargelog/core/metrics"
	"github.com/kilianp07/chargelog/core/model"
	"github.com/kilianp07/chargelog/core/stats"
	"github.com/kilianp07/chargelog/infra/logger"
)

// InfluxConfig holds the connection settings of the influx sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes sessions and reports to InfluxDB.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings InfluxDB and returns a NopSink when the
// health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.ReportSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSession writes one charging_session point at the session date.
func (s *InfluxSink) RecordSession(rec model.ChargingSession) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("charging_session").
		AddTag("vehicle_id", rec.VehicleID).
		AddTag("location", rec.LocationName).
		AddTag("site", rec.SiteName).
		AddField("energy_kwh", round3(rec.EnergyKWh)).
		AddField("total_cost", round3(rec.TotalCost)).
		AddField("duration_minutes", rec.DurationMinutes).
		AddField("odometer", round3(rec.Odometer)).
		SetTime(rec.Date)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordReport writes a charging_report point at the report time.
func (s *InfluxSink) RecordReport(vehicleID string, r stats.Report) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("charging_report").
		AddTag("vehicle_id", vehicleID).
		AddField("sessions", r.Sessions).
		AddField("total_energy_kwh", round3(r.TotalEnergyKWh)).
		AddField("total_cost", round3(r.TotalCost)).
		AddField("average_cost", round3(r.AverageCost)).
		AddField("average_energy_kwh", round3(r.AverageEnergyKWh)).
		AddField("average_duration_minutes", round3(r.AverageDurationMinutes))
	if n := len(r.RollingCost); n > 0 {
		p = p.AddField("week_cost", round3(r.RollingCost[n-1]))
	}
	if n := len(r.RollingEnergy); n > 0 {
		p = p.AddField("week_energy_kwh", round3(r.RollingEnergy[n-1]))
	}
	if r.CurrentMileage != nil {
		p = p.AddField("odometer", round3(*r.CurrentMileage))
	}
	if r.KmPerKWh != nil {
		p = p.AddField("km_per_kwh", round3(*r.KmPerKWh))
	}
	p = p.SetTime(r.GeneratedAt)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
