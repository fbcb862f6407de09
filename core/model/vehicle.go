package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidVehicle is wrapped by vehicle validation failures.
var ErrInvalidVehicle = errors.New("invalid vehicle")

// Vehicle is a profile in the garage. Sessions reference it by Name.
type Vehicle struct {
	Name      string `json:"name"`
	ImagePath string `json:"image_path,omitempty"`
}

// Validate checks that the vehicle can be registered.
func (v Vehicle) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidVehicle)
	}
	return nil
}

// MoveVehicle returns a copy of vehicles with the entry at from moved to to.
// Indexes out of range are clamped.
func MoveVehicle(vehicles []Vehicle, from, to int) []Vehicle {
	res := make([]Vehicle, len(vehicles))
	copy(res, vehicles)
	if from < 0 || from >= len(res) {
		return res
	}
	if to < 0 {
		to = 0
	}
	if to >= len(res) {
		to = len(res) - 1
	}
	v := res[from]
	res = append(res[:from], res[from+1:]...)
	res = append(res[:to], append([]Vehicle{v}, res[to:]...)...)
	return res
}
