// Package metrics implements the Prometheus and InfluxDB report sinks.
package metrics

import (
	"github.com/kilianp07/chargelog/core/factory"
	coremetrics "github.com/kilianp07/chargelog/core/metrics"
)

func init() {
	_ = coremetrics.RegisterSink("prometheus", func(map[string]any) (coremetrics.ReportSink, error) {
		return NewPromSink()
	})
	_ = coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.ReportSink, error) {
		var c InfluxConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c), nil
	})
}
