package logbook

import (
	"fmt"

	"github.com/kilianp07/chargelog/core/model"
)

// Slice helpers shared by the backends that keep the garage as a list.

func findVehicle(vs []model.Vehicle, name string) int {
	for i, v := range vs {
		if v.Name == name {
			return i
		}
	}
	return -1
}

// AddVehicle appends v to vs.
func AddVehicle(vs []model.Vehicle, v model.Vehicle) ([]model.Vehicle, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if findVehicle(vs, v.Name) >= 0 {
		return nil, fmt.Errorf("vehicle %s: %w", v.Name, ErrDuplicateVehicle)
	}
	return append(append([]model.Vehicle{}, vs...), v), nil
}

// RemoveVehicle drops the named vehicle. Its sessions are kept.
func RemoveVehicle(vs []model.Vehicle, name string) ([]model.Vehicle, error) {
	i := findVehicle(vs, name)
	if i < 0 {
		return nil, fmt.Errorf("vehicle %s: %w", name, ErrNotFound)
	}
	out := append([]model.Vehicle{}, vs[:i]...)
	return append(out, vs[i+1:]...), nil
}

// MoveVehicle moves the named vehicle to index.
func MoveVehicle(vs []model.Vehicle, name string, index int) ([]model.Vehicle, error) {
	i := findVehicle(vs, name)
	if i < 0 {
		return nil, fmt.Errorf("vehicle %s: %w", name, ErrNotFound)
	}
	return model.MoveVehicle(vs, i, index), nil
}

// SetVehicleImage updates the image path of the named vehicle.
func SetVehicleImage(vs []model.Vehicle, name, path string) ([]model.Vehicle, error) {
	i := findVehicle(vs, name)
	if i < 0 {
		return nil, fmt.Errorf("vehicle %s: %w", name, ErrNotFound)
	}
	out := append([]model.Vehicle{}, vs...)
	out[i].ImagePath = path
	return out, nil
}
