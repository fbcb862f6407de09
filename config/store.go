package config

import (
	"fmt"

	"github.com/kilianp07/chargelog/core/factory"
)

// StoreConfig selects the logbook backend.
type StoreConfig struct {
	// Type is one of "json", "sqlite" or "memory".
	Type string `json:"type"`
	Path string `json:"path"`
}

func (c *StoreConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "json"
	}
	if c.Path == "" && c.Type == "json" {
		c.Path = "chargelog.json"
	}
	if c.Path == "" && c.Type == "sqlite" {
		c.Path = "chargelog.db"
	}
}

func (c StoreConfig) Validate() error {
	if c.Type != "memory" && c.Path == "" {
		return fmt.Errorf("path is required for %s", c.Type)
	}
	return nil
}

// Module converts the section for the backend registry.
func (c StoreConfig) Module() factory.ModuleConfig {
	return factory.ModuleConfig{Type: c.Type, Conf: map[string]any{"path": c.Path}}
}
