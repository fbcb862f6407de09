package metrics

import "github.com/kilianp07/chargelog/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddress serves /metrics on a dedicated listener. When empty
	// the API server exposes /metrics itself.
	PrometheusAddress string `json:"prometheus_address"`
}

// Enabled reports whether a sink of type name is configured.
func (c Config) Enabled(name string) bool {
	for _, s := range c.Sinks {
		if s.Type == name {
			return true
		}
	}
	return false
}
