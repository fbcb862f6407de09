package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/chargelog/core/stats"
)

// StatsConfig tunes report generation.
type StatsConfig struct {
	// WindowSize is the number of weeks in the rolling series.
	WindowSize int `json:"window_size"`
	// RefreshIntervalSeconds re-records every report so that rolling windows
	// follow the calendar even without new sessions.
	RefreshIntervalSeconds int `json:"refresh_interval_seconds"`
}

func (c *StatsConfig) SetDefaults() {
	if c.WindowSize == 0 {
		c.WindowSize = stats.DefaultWindowSize
	}
	if c.RefreshIntervalSeconds == 0 {
		c.RefreshIntervalSeconds = 3600
	}
}

func (c StatsConfig) Validate() error {
	if err := stats.ValidateWindowSize(c.WindowSize); err != nil {
		return fmt.Errorf("window_size: %w", err)
	}
	if c.RefreshIntervalSeconds < 0 {
		return fmt.Errorf("refresh_interval_seconds must not be negative")
	}
	return nil
}

func (c StatsConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}
