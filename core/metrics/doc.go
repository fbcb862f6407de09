// Package metrics defines the sinks that receive statistics reports and new
// charging sessions. Sinks such as Prometheus, InfluxDB or MQTT are built by
// name from configuration and combined with NewMultiSink when several are
// configured.
package metrics
