package logbook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kilianp07/chargelog/core/logbook"
	"github.com/kilianp07/chargelog/core/model"
)

type document struct {
	Vehicles []model.Vehicle         `json:"vehicles"`
	Sessions []model.ChargingSession `json:"sessions"`
}

// JSONFileStore keeps the whole logbook in memory and rewrites a single JSON
// document after every change. Changes are applied to a copy that replaces
// the live logbook only once the document was renamed into place.
type JSONFileStore struct {
	mu   sync.RWMutex
	path string
	mem  *logbook.MemoryStore
}

// NewJSONFileStore loads path, creating an empty logbook when it does not exist.
func NewJSONFileStore(path string) (*JSONFileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	s := &JSONFileStore{path: path, mem: logbook.NewMemoryStore()}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return s, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if s.mem, err = doc.load(context.Background()); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

func (d document) load(ctx context.Context) (*logbook.MemoryStore, error) {
	mem := logbook.NewMemoryStore()
	for _, v := range d.Vehicles {
		if err := mem.AddVehicle(ctx, v); err != nil {
			return nil, err
		}
	}
	for _, rec := range d.Sessions {
		if err := mem.Append(ctx, rec); err != nil {
			return nil, err
		}
	}
	return mem, nil
}

func snapshot(ctx context.Context, mem *logbook.MemoryStore) (document, error) {
	sessions, err := mem.LoadAll(ctx, "")
	if err != nil {
		return document{}, err
	}
	vehicles, err := mem.Vehicles(ctx)
	if err != nil {
		return document{}, err
	}
	return document{Vehicles: vehicles, Sessions: sessions}, nil
}

func (s *JSONFileStore) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// mutate applies fn to a copy of the logbook, writes the copy to disk and
// only then makes it the live logbook.
func (s *JSONFileStore) mutate(ctx context.Context, fn func(mem *logbook.MemoryStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := snapshot(ctx, s.mem)
	if err != nil {
		return err
	}
	next, err := doc.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	if doc, err = snapshot(ctx, next); err != nil {
		return err
	}
	if err := s.write(doc); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.mem = next
	return nil
}

func (s *JSONFileStore) current() *logbook.MemoryStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mem
}

func (s *JSONFileStore) LoadAll(ctx context.Context, vehicleID string) ([]model.ChargingSession, error) {
	return s.current().LoadAll(ctx, vehicleID)
}

func (s *JSONFileStore) Get(ctx context.Context, id string) (model.ChargingSession, error) {
	return s.current().Get(ctx, id)
}

func (s *JSONFileStore) Append(ctx context.Context, rec model.ChargingSession) error {
	return s.mutate(ctx, func(mem *logbook.MemoryStore) error { return mem.Append(ctx, rec) })
}

func (s *JSONFileStore) Update(ctx context.Context, rec model.ChargingSession) error {
	return s.mutate(ctx, func(mem *logbook.MemoryStore) error { return mem.Update(ctx, rec) })
}

func (s *JSONFileStore) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(mem *logbook.MemoryStore) error { return mem.Delete(ctx, id) })
}

func (s *JSONFileStore) Vehicles(ctx context.Context) ([]model.Vehicle, error) {
	return s.current().Vehicles(ctx)
}

func (s *JSONFileStore) AddVehicle(ctx context.Context, v model.Vehicle) error {
	return s.mutate(ctx, func(mem *logbook.MemoryStore) error { return mem.AddVehicle(ctx, v) })
}

func (s *JSONFileStore) RemoveVehicle(ctx context.Context, name string) error {
	return s.mutate(ctx, func(mem *logbook.MemoryStore) error { return mem.RemoveVehicle(ctx, name) })
}

func (s *JSONFileStore) MoveVehicle(ctx context.Context, name string, index int) error {
	return s.mutate(ctx, func(mem *logbook.MemoryStore) error { return mem.MoveVehicle(ctx, name, index) })
}

func (s *JSONFileStore) SetVehicleImage(ctx context.Context, name, path string) error {
	return s.mutate(ctx, func(mem *logbook.MemoryStore) error { return mem.SetVehicleImage(ctx, name, path) })
}

func (s *JSONFileStore) Close() error { return nil }
