package tracking

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"backend-carbonwallet/internal/activity"
	"backend-carbonwallet/internal/emission"
	"backend-carbonwallet/internal/shared/geo"

	"github.com/google/uuid"
)

var ErrInvalidTransition = errors.New("invalid tracking state transition")

// Live tracking assumes a car-like vehicle: factors depend on fuel only.
const realtimeMileageKmPerLitre = 12.5

type State int

const (
	StateSetup State = iota
	StateTracking
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateTracking:
		return "tracking"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Accumulator owns one session and applies position samples to it. It is not
// safe for concurrent use; callers feed it one sample at a time.
type Accumulator struct {
	state   State
	session Session
	prev    *Waypoint
}

func NewAccumulator(userID string, setup Setup) *Accumulator {
	return &Accumulator{
		state: StateSetup,
		session: Session{
			UserID:      userID,
			VehicleType: setup.VehicleType,
			FuelType:    setup.FuelType,
			VehicleAge:  setup.VehicleAge,
		},
	}
}

// Restore rebuilds an accumulator from a persisted snapshot. The last
// waypoint becomes the previous coordinate for the next sample.
func Restore(s Session) *Accumulator {
	a := &Accumulator{session: s.clone()}
	switch {
	case !s.IsActive && s.EndTime != nil:
		a.state = StateStopped
	case !s.IsActive:
		a.state = StateSetup
	case s.IsPaused:
		a.state = StatePaused
	default:
		a.state = StateTracking
	}
	if n := len(s.Waypoints); n > 0 {
		last := s.Waypoints[n-1]
		a.prev = &last
	}
	return a
}

func (a *Accumulator) State() State { return a.state }

func (a *Accumulator) Session() Session { return a.session.clone() }

func (a *Accumulator) Start(now time.Time) (Session, error) {
	if a.state != StateSetup {
		return Session{}, fmt.Errorf("%w: start from %s", ErrInvalidTransition, a.state)
	}
	if a.session.ID == "" {
		a.session.ID = uuid.NewString()
	}
	a.session.StartTime = now
	a.session.EndTime = nil
	a.session.TotalDistance = 0
	a.session.CarbonEmitted = 0
	a.session.MoneySpent = 0
	a.session.AverageSpeed = 0
	a.session.Waypoints = []Waypoint{}
	a.session.IsActive = true
	a.session.IsPaused = false
	a.prev = nil
	a.state = StateTracking
	return a.Session(), nil
}

func (a *Accumulator) Pause() error {
	if a.state != StateTracking {
		return fmt.Errorf("%w: pause from %s", ErrInvalidTransition, a.state)
	}
	a.state = StatePaused
	a.session.IsPaused = true
	return nil
}

func (a *Accumulator) Resume() error {
	if a.state != StatePaused {
		return fmt.Errorf("%w: resume from %s", ErrInvalidTransition, a.state)
	}
	a.state = StateTracking
	a.session.IsPaused = false
	return nil
}

// Step applies one sample. It reports false, leaving the session untouched,
// when tracking is paused.
func (a *Accumulator) Step(sample Sample, now time.Time) (bool, error) {
	switch a.state {
	case StatePaused:
		return false, nil
	case StateTracking:
	default:
		return false, fmt.Errorf("%w: sample while %s", ErrInvalidTransition, a.state)
	}

	wp := Waypoint{Lat: sample.Latitude, Lng: sample.Longitude, Timestamp: sample.Timestamp}
	if wp.Timestamp.IsZero() {
		wp.Timestamp = now
	}

	increment := 0.0
	if a.prev != nil {
		increment = geo.HaversineKm(a.prev.Lat, a.prev.Lng, wp.Lat, wp.Lng)
	}

	s := &a.session
	s.TotalDistance += increment
	s.CarbonEmitted = s.TotalDistance * realtimeCarbonFactor(s.FuelType)
	s.MoneySpent = s.TotalDistance / realtimeMileageKmPerLitre * realtimeFuelCost(s.FuelType)

	s.AverageSpeed = 0
	if hours := now.Sub(s.StartTime).Hours(); hours > 0 {
		s.AverageSpeed = s.TotalDistance / hours
	}

	s.Waypoints = append(s.Waypoints, wp)
	a.prev = &wp
	return true, nil
}

// Stop finalizes the session and converts it into a realtime_travel record.
func (a *Accumulator) Stop(now time.Time) (Session, activity.Record, error) {
	if a.state != StateTracking && a.state != StatePaused {
		return Session{}, activity.Record{}, fmt.Errorf("%w: stop from %s", ErrInvalidTransition, a.state)
	}

	end := now
	a.session.EndTime = &end
	a.session.IsActive = false
	a.session.IsPaused = false
	a.state = StateStopped

	input, err := json.Marshal(map[string]any{
		"vehicle_type": a.session.VehicleType,
		"fuel_type":    a.session.FuelType,
		"vehicle_age":  a.session.VehicleAge,
	})
	if err != nil {
		return Session{}, activity.Record{}, fmt.Errorf("encode session input: %w", err)
	}

	rec := activity.Record{
		UserID:            a.session.UserID,
		Type:              emission.ActivityRealtimeTravel,
		InputData:         input,
		CarbonEmitted:     a.session.CarbonEmitted,
		CostSpent:         a.session.MoneySpent,
		DistanceTravelled: a.session.TotalDistance,
		Duration:          int(math.Round(now.Sub(a.session.StartTime).Minutes())),
	}
	rec.Stamp(now)
	return a.Session(), rec, nil
}

func realtimeCarbonFactor(f emission.FuelType) float64 {
	switch f {
	case emission.FuelPetrol:
		return 0.12
	case emission.FuelDiesel:
		return 0.15
	default:
		return 0.05
	}
}

func realtimeFuelCost(f emission.FuelType) float64 {
	switch f {
	case emission.FuelPetrol:
		return 1.5
	case emission.FuelDiesel:
		return 1.4
	default:
		return 0.3
	}
}
