package logbook

import (
	"context"
	"errors"

	"github.com/kilianp07/chargelog/core/model"
)

var (
	// ErrNotFound is returned when a session or vehicle does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when appending a session whose ID is taken.
	ErrDuplicateID = errors.New("duplicate session id")
	// ErrDuplicateVehicle is returned when registering an existing vehicle name.
	ErrDuplicateVehicle = errors.New("vehicle already exists")
)

// Store persists charging sessions.
type Store interface {
	// LoadAll returns the sessions of vehicleID in no particular order. An
	// empty vehicleID returns every session.
	LoadAll(ctx context.Context, vehicleID string) ([]model.ChargingSession, error)
	Get(ctx context.Context, id string) (model.ChargingSession, error)
	Append(ctx context.Context, s model.ChargingSession) error
	// Update replaces the session with the same ID.
	Update(ctx context.Context, s model.ChargingSession) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// VehicleRegistry keeps the ordered list of vehicle profiles.
type VehicleRegistry interface {
	Vehicles(ctx context.Context) ([]model.Vehicle, error)
	AddVehicle(ctx context.Context, v model.Vehicle) error
	RemoveVehicle(ctx context.Context, name string) error
	// MoveVehicle moves the named vehicle to position index.
	MoveVehicle(ctx context.Context, name string, index int) error
	SetVehicleImage(ctx context.Context, name, path string) error
}

// Logbook is implemented by every backend.
type Logbook interface {
	Store
	VehicleRegistry
}
