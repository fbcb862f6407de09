package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "chargelog.yaml", `store:
  type: sqlite
  path: /var/lib/chargelog/log.db
logging:
  level: debug
  file: chargelog.log
stats:
  window_size: 8
http:
  address: ":9000"
metrics:
  prometheus_address: ":2112"
  sinks:
    - type: prometheus
    - type: mqtt
      conf:
        broker: tcp://localhost:1883
sentry:
  dsn: ""
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"store.type", cfg.Store.Type, "sqlite"},
		{"store.path", cfg.Store.Path, "/var/lib/chargelog/log.db"},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"logging.max_size_mb", cfg.Logging.MaxSizeMB, 10},
		{"stats.window_size", cfg.Stats.WindowSize, 8},
		{"stats.refresh_interval_seconds", cfg.Stats.RefreshIntervalSeconds, 3600},
		{"http.address", cfg.HTTP.Address, ":9000"},
		{"metrics.prometheus_address", cfg.Metrics.PrometheusAddress, ":2112"},
		{"metrics.sinks", len(cfg.Metrics.Sinks), 2},
		{"metrics.sinks[1].type", cfg.Metrics.Sinks[1].Type, "mqtt"},
		{"metrics.sinks[1].broker", cfg.Metrics.Sinks[1].Conf["broker"], "tcp://localhost:1883"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: got %v want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "chargelog.json", `{"store":{"type":"memory"},"stats":{"window_size":2}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Store.Type != "memory" || cfg.Store.Path != "" || cfg.Stats.WindowSize != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Store.Type != "json" || cfg.Store.Path != "chargelog.json" {
		t.Fatalf("unexpected store %+v", cfg.Store)
	}
	if cfg.Stats.WindowSize != 4 || cfg.HTTP.Address != ":8080" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	mod := cfg.Store.Module()
	if mod.Type != "json" || mod.Conf["path"] != "chargelog.json" {
		t.Fatalf("unexpected module %+v", mod)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CHARGELOG_STORE__TYPE", "sqlite")
	t.Setenv("CHARGELOG_STATS__WINDOW_SIZE", "6")
	t.Setenv("CHARGELOG_HTTP__ADDRESS", ":7000")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Store.Type != "sqlite" || cfg.Store.Path != "chargelog.db" {
		t.Fatalf("unexpected store %+v", cfg.Store)
	}
	if cfg.Stats.WindowSize != 6 || cfg.HTTP.Address != ":7000" {
		t.Fatalf("env override ignored: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"bad level":  writeFile(t, "a.yaml", "logging:\n  level: loud\n"),
		"bad window": writeFile(t, "b.yaml", "stats:\n  window_size: -1\n"),
		"huge window": writeFile(t, "d.yaml", "stats:\n  window_size: 100000\n"),
		"format":     writeFile(t, "c.toml", "x = 1\n"),
		"missing":    filepath.Join(t.TempDir(), "nope.yaml"),
	}
	for name, path := range cases {
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
