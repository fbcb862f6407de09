package sessions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/chargelog/core/logbook"
	"github.com/kilianp07/chargelog/core/model"
	"github.com/kilianp07/chargelog/core/stats"
)

type failingStore struct{ *logbook.MemoryStore }

func (failingStore) LoadAll(_ context.Context, _ string) ([]model.ChargingSession, error) {
	return nil, errors.New("disk on fire")
}

func newServer(t *testing.T, lb logbook.Logbook) *httptest.Server {
	t.Helper()
	h := NewHandler(logbook.NewService(lb, nil), 4, nil)
	h.now = func() time.Time { return time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC) }
	mux := http.NewServeMux()
	h.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

const sessionBody = `{"odometer":1000,"date":"%s","total_cost":%g,"hours":1,"minutes":5,
	"location_name":"Tesla","site_name":"Hsinchu","energy_kwh":%g}`

func body(date string, cost, energy float64) string {
	return fmt.Sprintf(sessionBody, date, cost, energy)
}

func TestSessionLifecycle(t *testing.T) {
	srv := newServer(t, logbook.NewMemoryStore())

	resp := do(t, http.MethodPost, srv.URL+"/api/vehicles/Leaf/sessions", body("2024-05-13", 8, 40))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[model.ChargingSession](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Leaf", created.VehicleID)
	assert.Equal(t, 65, created.DurationMinutes)

	resp = do(t, http.MethodPost, srv.URL+"/api/vehicles/Leaf/sessions", body("2024-04-22T10:00:00Z", 1, 10))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/vehicles/Leaf/sessions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]model.ChargingSession](t, resp)
	require.Len(t, list, 2)
	assert.Equal(t, created.ID, list[0].ID, "newest first")

	resp = do(t, http.MethodGet, srv.URL+"/api/vehicles/Leaf/sessions?since=2024-05-01", "")
	assert.Len(t, decode[[]model.ChargingSession](t, resp), 1)

	resp = do(t, http.MethodPut, srv.URL+"/api/sessions/"+created.ID, body("2024-05-13", 9, 45))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, http.MethodGet, srv.URL+"/api/sessions/"+created.ID, "")
	updated := decode[model.ChargingSession](t, resp)
	assert.Equal(t, 45.0, updated.EnergyKWh)
	assert.Equal(t, "Leaf", updated.VehicleID)

	resp = do(t, http.MethodDelete, srv.URL+"/api/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodDelete, srv.URL+"/api/sessions/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStats(t *testing.T) {
	srv := newServer(t, logbook.NewMemoryStore())
	for _, s := range []struct {
		date         string
		cost, energy float64
	}{
		{"2024-04-22", 1, 10}, {"2024-04-29", 2, 20}, {"2024-05-06", 4, 30}, {"2024-05-13", 8, 40},
	} {
		resp := do(t, http.MethodPost, srv.URL+"/api/vehicles/Leaf/sessions", body(s.date, s.cost, s.energy))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := do(t, http.MethodGet, srv.URL+"/api/vehicles/Leaf/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rep := decode[stats.Report](t, resp)
	assert.Equal(t, []float64{1, 2, 4, 8}, rep.RollingCost)
	assert.Equal(t, []string{"2024-W17", "2024-W18", "2024-W19", "2024-W20"}, rep.RollingWeeks)
	assert.Equal(t, 100.0, rep.TotalEnergyKWh)
	assert.Equal(t, 4, rep.CountByLocation["Tesla"])

	resp = do(t, http.MethodGet, srv.URL+"/api/vehicles/Leaf/stats?window=2", "")
	rep = decode[stats.Report](t, resp)
	assert.Equal(t, []float64{4, 8}, rep.RollingCost)

	resp = do(t, http.MethodGet, srv.URL+"/api/vehicles/Leaf/stats?window=-1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, w := range []string{"521", "5000000", "ten"} {
		resp = do(t, http.MethodGet, srv.URL+"/api/vehicles/Leaf/stats?window="+w, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "window=%s", w)
		resp = do(t, http.MethodGet, srv.URL+"/api/vehicles/Leaf/charts?window="+w, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "charts window=%s", w)
	}

	resp = do(t, http.MethodGet, srv.URL+"/api/vehicles/Leaf/stats?window=520", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rep = decode[stats.Report](t, resp)
	assert.Len(t, rep.RollingCost, 520)

	resp = do(t, http.MethodGet, srv.URL+"/api/vehicles/Nobody/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	empty := decode[stats.Report](t, resp)
	assert.Equal(t, 0, empty.Sessions)
	assert.Nil(t, empty.KmPerKWh)
	assert.Equal(t, []float64{0, 0, 0, 0}, empty.RollingCost)
}

func TestChartsAndExport(t *testing.T) {
	srv := newServer(t, logbook.NewMemoryStore())
	resp := do(t, http.MethodPost, srv.URL+"/api/vehicles/Leaf/sessions", body("2024-05-13", 8, 40))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/vehicles/Leaf/charts", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	var html bytes.Buffer
	_, _ = html.ReadFrom(resp.Body)
	assert.Contains(t, html.String(), "Leaf charging statistics")

	resp = do(t, http.MethodGet, srv.URL+"/api/vehicles/Leaf/export.csv", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var csv bytes.Buffer
	_, _ = csv.ReadFrom(resp.Body)
	assert.Equal(t, "vehicle,odometer,date,total_cost,duration,location,site,energy_kwh\n"+
		"Leaf,1000,2024-05-13,8,01:05,Tesla,Hsinchu,40\n", csv.String())
}

func TestVehicles(t *testing.T) {
	srv := newServer(t, logbook.NewMemoryStore())
	resp := do(t, http.MethodPost, srv.URL+"/api/vehicles", `{"name":"Leaf"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = do(t, http.MethodPost, srv.URL+"/api/vehicles", `{"name":"Leaf"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp = do(t, http.MethodPost, srv.URL+"/api/vehicles", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/vehicles", "")
	vs := decode[[]model.Vehicle](t, resp)
	assert.Equal(t, []model.Vehicle{{Name: "Leaf"}}, vs)

	resp = do(t, http.MethodDelete, srv.URL+"/api/vehicles/Leaf", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, http.MethodDelete, srv.URL+"/api/vehicles/Leaf", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestErrorMapping(t *testing.T) {
	srv := newServer(t, logbook.NewMemoryStore())
	cases := []struct {
		name, method, path, body string
		want                     int
	}{
		{"malformed json", http.MethodPost, "/api/vehicles/Leaf/sessions", `{`, http.StatusBadRequest},
		{"missing energy", http.MethodPost, "/api/vehicles/Leaf/sessions", body("2024-05-13", 8, 0), http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/vehicles/Leaf/sessions", body("13/05/2024", 8, 40), http.StatusBadRequest},
		{"bad since", http.MethodGet, "/api/vehicles/Leaf/sessions?since=yesterday", "", http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/api/sessions/nope", "", http.StatusNotFound},
		{"update unknown", http.MethodPut, "/api/sessions/nope", body("2024-05-13", 8, 40), http.StatusNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp := do(t, c.method, srv.URL+c.path, c.body)
			assert.Equal(t, c.want, resp.StatusCode)
			out := decode[map[string]string](t, resp)
			assert.NotEmpty(t, out["error"])
		})
	}

	broken := newServer(t, failingStore{logbook.NewMemoryStore()})
	resp := do(t, http.MethodGet, broken.URL+"/api/vehicles/Leaf/stats", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
