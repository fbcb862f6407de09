package logbook

import (
	"context"
	"fmt"
	"sync"

	"github.com/kilianp07/chargelog/core/model"
)

// MemoryStore keeps the logbook in memory for tests or dry runs.
type MemoryStore struct {
	mu       sync.Mutex
	sessions []model.ChargingSession
	vehicles []model.Vehicle
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadAll returns a copy of the stored sessions of vehicleID.
func (s *MemoryStore) LoadAll(_ context.Context, vehicleID string) ([]model.ChargingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vehicleID == "" {
		return append([]model.ChargingSession{}, s.sessions...), nil
	}
	return model.FilterByVehicle(s.sessions, vehicleID), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.ChargingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.sessions[i], nil
	}
	return model.ChargingSession{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
}

func (s *MemoryStore) Append(_ context.Context, rec model.ChargingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(rec.ID) >= 0 {
		return fmt.Errorf("session %s: %w", rec.ID, ErrDuplicateID)
	}
	s.sessions = append(s.sessions, rec)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, rec model.ChargingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(rec.ID)
	if i < 0 {
		return fmt.Errorf("session %s: %w", rec.ID, ErrNotFound)
	}
	s.sessions[i] = rec
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) index(id string) int {
	for i, rec := range s.sessions {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) Vehicles(_ context.Context) ([]model.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Vehicle{}, s.vehicles...), nil
}

func (s *MemoryStore) AddVehicle(_ context.Context, v model.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := AddVehicle(s.vehicles, v)
	if err != nil {
		return err
	}
	s.vehicles = vs
	return nil
}

func (s *MemoryStore) RemoveVehicle(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := RemoveVehicle(s.vehicles, name)
	if err != nil {
		return err
	}
	s.vehicles = vs
	return nil
}

func (s *MemoryStore) MoveVehicle(_ context.Context, name string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := MoveVehicle(s.vehicles, name, index)
	if err != nil {
		return err
	}
	s.vehicles = vs
	return nil
}

func (s *MemoryStore) SetVehicleImage(_ context.Context, name, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	vs, err := SetVehicleImage(s.vehicles, name, path)
	if err != nil {
		return err
	}
	s.vehicles = vs
	return nil
}
