package tracking

import (
	"fmt"
	"time"

	"backend-carbonwallet/internal/emission"
)

type VehicleType string

const (
	VehicleCar     VehicleType = "car"
	VehicleBike    VehicleType = "bike"
	VehicleScooter VehicleType = "scooter"
)

// Setup is the vehicle configuration chosen before tracking starts.
type Setup struct {
	VehicleType VehicleType       `json:"vehicle_type"`
	FuelType    emission.FuelType `json:"fuel_type"`
	VehicleAge  int               `json:"vehicle_age"`
}

func (s Setup) Validate() error {
	switch s.VehicleType {
	case VehicleCar, VehicleBike, VehicleScooter:
	default:
		return fmt.Errorf("%w: unknown vehicle type %q", emission.ErrInvalidInput, s.VehicleType)
	}
	switch s.FuelType {
	case emission.FuelPetrol, emission.FuelDiesel, emission.FuelElectric:
	default:
		return fmt.Errorf("%w: unknown fuel type %q", emission.ErrInvalidInput, s.FuelType)
	}
	if s.VehicleAge < 0 {
		return fmt.Errorf("%w: vehicle age must not be negative", emission.ErrInvalidInput)
	}
	return nil
}

// Sample is one reading from a position source.
type Sample struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

type Waypoint struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the full snapshot persisted after every change.
type Session struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	VehicleType   VehicleType       `json:"vehicle_type"`
	FuelType      emission.FuelType `json:"fuel_type"`
	VehicleAge    int               `json:"vehicle_age"`
	StartTime     time.Time         `json:"start_time"`
	EndTime       *time.Time        `json:"end_time,omitempty"`
	TotalDistance float64           `json:"total_distance"`
	CarbonEmitted float64           `json:"carbon_emitted"`
	MoneySpent    float64           `json:"money_spent"`
	AverageSpeed  float64           `json:"average_speed"`
	IsActive      bool              `json:"is_active"`
	IsPaused      bool              `json:"is_paused"`
	Waypoints     []Waypoint        `json:"waypoints"`
}

func (s Session) clone() Session {
	out := s
	out.Waypoints = append(make([]Waypoint, 0, len(s.Waypoints)), s.Waypoints...)
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	return out
}
