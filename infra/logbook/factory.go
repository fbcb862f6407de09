// Package logbook provides the persistent logbook backends.
package logbook

import (
	"errors"

	"github.com/kilianp07/chargelog/core/factory"
	"github.com/kilianp07/chargelog/core/logbook"
)

// Backends holds the available logbook backends keyed by store type.
var Backends = factory.NewRegistry[logbook.Logbook]()

type pathConf struct {
	Path string `json:"path"`
}

func decodePath(conf map[string]any) (string, error) {
	var c pathConf
	if err := factory.Decode(conf, &c); err != nil {
		return "", err
	}
	if c.Path == "" {
		return "", errors.New("path is required")
	}
	return c.Path, nil
}

func init() {
	Backends.MustRegister("memory", func(map[string]any) (logbook.Logbook, error) {
		return logbook.NewMemoryStore(), nil
	})
	Backends.MustRegister("json", func(conf map[string]any) (logbook.Logbook, error) {
		p, err := decodePath(conf)
		if err != nil {
			return nil, err
		}
		return NewJSONFileStore(p)
	})
	Backends.MustRegister("sqlite", func(conf map[string]any) (logbook.Logbook, error) {
		p, err := decodePath(conf)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(p)
	})
}

// Open builds the backend described by cfg.
func Open(cfg factory.ModuleConfig) (logbook.Logbook, error) {
	return Backends.Create(cfg)
}
