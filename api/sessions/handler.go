// Package sessions exposes the charging logbook and its statistics over HTTP.
package sessions

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/kilianp07/chargelog/core/logbook"
	"github.com/kilianp07/chargelog/core/logger"
	"github.com/kilianp07/chargelog/core/model"
	coremon "github.com/kilianp07/chargelog/core/monitoring"
	"github.com/kilianp07/chargelog/core/stats"
	"github.com/kilianp07/chargelog/infra/chart"
	"github.com/kilianp07/chargelog/pkg/export"
)

var errBadRequest = errors.New("bad request")

// Handler serves the logbook API.
type Handler struct {
	svc        *logbook.Service
	windowSize int
	log        logger.Logger
	now        func() time.Time
}

// NewHandler returns a Handler computing rolling series over windowSize weeks.
func NewHandler(svc *logbook.Service, windowSize int, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{svc: svc, windowSize: windowSize, log: log, now: time.Now}
}

// Register mounts the routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/vehicles", h.listVehicles)
	mux.HandleFunc("POST /api/vehicles", h.addVehicle)
	mux.HandleFunc("DELETE /api/vehicles/{vehicle}", h.removeVehicle)
	mux.HandleFunc("GET /api/vehicles/{vehicle}/sessions", h.listSessions)
	mux.HandleFunc("POST /api/vehicles/{vehicle}/sessions", h.createSession)
	mux.HandleFunc("GET /api/vehicles/{vehicle}/stats", h.stats)
	mux.HandleFunc("GET /api/vehicles/{vehicle}/charts", h.charts)
	mux.HandleFunc("GET /api/vehicles/{vehicle}/export.csv", h.exportCSV)
	mux.HandleFunc("GET /api/sessions/{id}", h.getSession)
	mux.HandleFunc("PUT /api/sessions/{id}", h.updateSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.deleteSession)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("encode response: %v", err)
	}
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, logbook.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, logbook.ErrDuplicateID), errors.Is(err, logbook.ErrDuplicateVehicle):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidSession), errors.Is(err, model.ErrInvalidVehicle), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		coremon.CaptureException(err, map[string]string{"module": "api", "route": r.Pattern})
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	vs, err := h.svc.Vehicles(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, vs)
}

func (h *Handler) addVehicle(w http.ResponseWriter, r *http.Request) {
	var v model.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if err := h.svc.AddVehicle(r.Context(), v); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) removeVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveVehicle(r.Context(), r.PathValue("vehicle")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// dateRange reads the optional since and until query parameters.
func dateRange(r *http.Request) (since, until time.Time, err error) {
	q := r.URL.Query()
	since, until, err = export.ParseRange(q.Get("since"), q.Get("until"))
	if err != nil {
		return since, until, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return since, until, nil
}

// vehicleSessions loads the sessions of the path vehicle within the query
// date range.
func (h *Handler) vehicleSessions(r *http.Request) ([]model.ChargingSession, error) {
	since, until, err := dateRange(r)
	if err != nil {
		return nil, err
	}
	sessions, err := h.svc.LoadAll(r.Context(), r.PathValue("vehicle"))
	if err != nil {
		return nil, err
	}
	return model.FilterByDate(sessions, since, until), nil
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.vehicleSessions(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	slices.SortStableFunc(sessions, func(a, b model.ChargingSession) int {
		return b.Date.Compare(a.Date)
	})
	h.writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var in sessionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	rec, err := in.session(r.PathValue("vehicle"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rec, err = h.svc.Record(r.Context(), rec)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) updateSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	prev, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var in sessionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	vehicle := in.VehicleID
	if vehicle == "" {
		vehicle = prev.VehicleID
	}
	rec, err := in.session(vehicle)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rec.ID = id
	if err := h.svc.Edit(r.Context(), rec); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) report(r *http.Request) (stats.Report, error) {
	window := h.windowSize
	if s := r.URL.Query().Get("window"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return stats.Report{}, fmt.Errorf("%w: window must be an integer", errBadRequest)
		}
		if err := stats.ValidateWindowSize(n); err != nil {
			return stats.Report{}, fmt.Errorf("%w: window: %v", errBadRequest, err)
		}
		window = n
	}
	sessions, err := h.vehicleSessions(r)
	if err != nil {
		return stats.Report{}, err
	}
	return stats.Summarize(r.PathValue("vehicle"), sessions, h.now(), window), nil
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	rep, err := h.report(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) charts(w http.ResponseWriter, r *http.Request) {
	rep, err := h.report(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.RenderDashboard(w, rep); err != nil {
		h.log.Errorf("render charts: %v", err)
	}
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.vehicleSessions(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", r.PathValue("vehicle")+".csv"))
	if err := export.WriteCSV(w, sessions); err != nil {
		h.log.Errorf("write csv: %v", err)
	}
}
