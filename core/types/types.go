// Package types defines core domain types shared across all layers.
// This package contains NO business logic beyond the vehicle exemption rule.
package types

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "toll-tracker/internal/errors"
)

// VehicleType is the category a vehicle is registered under
type VehicleType string

const (
	VehicleMotorbike VehicleType = "Motorbike"
	VehicleTractor   VehicleType = "Tractor"
	VehicleEmergency VehicleType = "Emergency"
	VehicleDiplomat  VehicleType = "Diplomat"
	VehicleForeign   VehicleType = "Foreign"
	VehicleMilitary  VehicleType = "Military"
	VehicleCar       VehicleType = "Car"
	VehicleBus       VehicleType = "Bus"
	VehicleTaxi      VehicleType = "Taxi"
	VehicleTruck     VehicleType = "Truck"
	VehicleVan       VehicleType = "Van"
	VehicleScooter   VehicleType = "Scooter"
)

// AllVehicleTypes lists every known vehicle type in declaration order
var AllVehicleTypes = []VehicleType{
	VehicleMotorbike,
	VehicleTractor,
	VehicleEmergency,
	VehicleDiplomat,
	VehicleForeign,
	VehicleMilitary,
	VehicleCar,
	VehicleBus,
	VehicleTaxi,
	VehicleTruck,
	VehicleVan,
	VehicleScooter,
}

// String returns the string representation
func (v VehicleType) String() string {
	return string(v)
}

// IsValid checks if the vehicle type is a known type
func (v VehicleType) IsValid() bool {
	for _, known := range AllVehicleTypes {
		if v == known {
			return true
		}
	}
	return false
}

// IsTollExempt reports whether vehicles of this type never pay toll
func (v VehicleType) IsTollExempt() bool {
	switch v {
	case VehicleMotorbike, VehicleTractor, VehicleEmergency,
		VehicleDiplomat, VehicleForeign, VehicleMilitary:
		return true
	default:
		return false
	}
}

// ParseVehicleType parses a vehicle type name, ignoring case
func ParseVehicleType(s string) (VehicleType, error) {
	name := strings.TrimSpace(s)
	for _, known := range AllVehicleTypes {
		if strings.EqualFold(name, string(known)) {
			return known, nil
		}
	}
	return "", apperrors.Newf(apperrors.TypeInput, "unknown vehicle type %q", s)
}

// UnmarshalJSON accepts any casing of a known vehicle type
func (v *VehicleType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVehicleType(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Vehicle identifies a vehicle passing the toll gates
type Vehicle struct {
	RegistrationNumber string      `json:"registration_number"`
	Type               VehicleType `json:"type"`
	Owner              string      `json:"owner,omitempty"`
	Model              string      `json:"model,omitempty"`
}

// Passage is one vehicle's recorded toll-gate crossings
type Passage struct {
	Vehicle    Vehicle     `json:"vehicle"`
	Timestamps []time.Time `json:"timestamps"`
}

// OnDate returns the crossings that fall on the same calendar day as date,
// compared in each timestamp's own location
func (p Passage) OnDate(date time.Time) []time.Time {
	y, m, d := date.Date()
	var out []time.Time
	for _, ts := range p.Timestamps {
		ty, tm, td := ts.Date()
		if ty == y && tm == m && td == d {
			out = append(out, ts)
		}
	}
	return out
}
