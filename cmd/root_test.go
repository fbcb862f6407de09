package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/chargelog/core/stats"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "chargelog.yaml")
	data := "store:\n  type: json\n  path: " + filepath.Join(dir, "log.json") + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func run(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, cfg string, args ...string) string {
	t.Helper()
	out, err := run(t, cfg, args...)
	require.NoError(t, err, out)
	return out
}

func TestVehicleCommands(t *testing.T) {
	cfg := writeConfig(t)
	mustRun(t, cfg, "vehicle", "add", "Model 3")
	mustRun(t, cfg, "vehicle", "add", "Leaf", "--image", "/img/leaf.png")
	mustRun(t, cfg, "vehicle", "add", "Ioniq 5")
	mustRun(t, cfg, "vehicle", "mv", "Ioniq 5", "0")
	mustRun(t, cfg, "vehicle", "rm", "Model 3")

	out := mustRun(t, cfg, "vehicle", "ls")
	assert.Equal(t, "Ioniq 5\nLeaf\t/img/leaf.png\n", out)

	_, err := run(t, cfg, "vehicle", "add", "Leaf")
	assert.Error(t, err)
	_, err = run(t, cfg, "vehicle", "mv", "Leaf", "first")
	assert.Error(t, err)
}

func TestSessionLifecycle(t *testing.T) {
	cfg := writeConfig(t)
	id := strings.TrimSpace(mustRun(t, cfg, "session", "add",
		"--vehicle", "car", "--date", "2024-05-14", "--odometer", "1200",
		"--cost", "150", "--hours", "1", "--minutes", "5",
		"--location", "Tesla", "--site", "Hsinchu", "--energy", "25"))
	require.NotEmpty(t, id)
	mustRun(t, cfg, "session", "add", "--vehicle", "car", "--date", "2024-05-01",
		"--odometer", "1000", "--cost", "100", "--location", "EVOASIS", "--site", "Taipei", "--energy", "20")

	mustRun(t, cfg, "session", "edit", id, "--energy", "30", "--minutes", "10")

	out := mustRun(t, cfg, "session", "ls", "--vehicle", "car")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], id)
	assert.Contains(t, lines[1], "2024-05-14")
	assert.Contains(t, lines[1], "01:10")
	assert.Contains(t, lines[1], "30")

	out = mustRun(t, cfg, "session", "ls", "--since", "2024-05-14")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	out = mustRun(t, cfg, "stats", "--vehicle", "car", "--format", "json", "--window", "3")
	var rep stats.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 2, rep.Sessions)
	assert.Equal(t, 50.0, rep.TotalEnergyKWh)
	assert.Equal(t, 250.0, rep.TotalCost)
	require.NotNil(t, rep.KmPerKWh)
	assert.InDelta(t, 24.0, *rep.KmPerKWh, 1e-9)
	assert.Len(t, rep.RollingWeeks, 3)

	out = mustRun(t, cfg, "stats", "--vehicle", "car")
	assert.Contains(t, out, "Current mileage (km)")
	assert.Contains(t, out, "EVOASIS")

	out = mustRun(t, cfg, "export", "--vehicle", "car")
	assert.True(t, strings.HasPrefix(out, "vehicle,odometer,date"))
	assert.Contains(t, out, "car,1000,2024-05-01,100,00:00,EVOASIS,Taipei,20\n")

	mustRun(t, cfg, "session", "rm", id)
	_, err := run(t, cfg, "session", "rm", id)
	assert.Error(t, err)
}

func TestSessionValidation(t *testing.T) {
	cfg := writeConfig(t)
	_, err := run(t, cfg, "session", "add", "--vehicle", "car", "--energy", "-1")
	assert.Error(t, err)
	_, err = run(t, cfg, "session", "add", "--vehicle", "car", "--date", "yesterday")
	assert.Error(t, err)
	_, err = run(t, cfg, "session", "add")
	assert.Error(t, err)
}

func TestChartAndExportFiles(t *testing.T) {
	cfg := writeConfig(t)
	mustRun(t, cfg, "session", "add", "--vehicle", "car", "--date", "2024-05-14",
		"--odometer", "900", "--cost", "150", "--location", "Tesla", "--site", "Hsinchu", "--energy", "25")

	dir := t.TempDir()
	html := filepath.Join(dir, "car.html")
	mustRun(t, cfg, "chart", "--vehicle", "car", "--out", html)
	data, err := os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(data), "car charging statistics")

	yml := filepath.Join(dir, "sessions.yaml")
	mustRun(t, cfg, "export", "--format", "yaml", "--out", yml)
	data, err = os.ReadFile(yml)
	require.NoError(t, err)
	assert.Contains(t, string(data), "vehicleid: car")

	_, err = run(t, cfg, "export", "--format", "xml")
	assert.Error(t, err)
	_, err = run(t, cfg, "stats", "--vehicle", "car", "--format", "xml")
	assert.Error(t, err)
	_, err = run(t, cfg, "stats", "--vehicle", "car", "--window", "5000000")
	assert.ErrorIs(t, err, stats.ErrWindowSize)
	_, err = run(t, cfg, "chart", "--vehicle", "car", "--window", "-3", "--out", "-")
	assert.ErrorIs(t, err, stats.ErrWindowSize)
}
