package activity

import (
	"encoding/json"
	"time"

	"backend-carbonwallet/internal/emission"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Record is one persisted activity history entry. ActivityDate and
// ActivityTime are the UTC rendering of CreatedAt.
type Record struct {
	ID                 string                `json:"id"`
	UserID             string                `json:"user_id"`
	Type               emission.ActivityType `json:"activity_type"`
	ActivityDate       string                `json:"activity_date"`
	ActivityTime       string                `json:"activity_time"`
	InputData          json.RawMessage       `json:"input_data"`
	CarbonEmitted      float64               `json:"carbon_emitted"`
	CostSpent          float64               `json:"cost_spent"`
	DistanceTravelled  float64               `json:"distance_travelled,omitempty"`
	Duration           int                   `json:"duration,omitempty"`
	AlternativeApplied bool                  `json:"alternative_applied"`
	CreatedAt          time.Time             `json:"created_at"`
}

// Stamp sets CreatedAt and the derived date and time strings.
func (r *Record) Stamp(at time.Time) {
	at = at.UTC()
	r.CreatedAt = at
	r.ActivityDate = at.Format(dateLayout)
	r.ActivityTime = at.Format(timeLayout)
}

// Filter narrows History. Empty fields match everything.
type Filter struct {
	Type emission.ActivityType
	Date string
}

type DayStats struct {
	Date       string  `json:"date"`
	Carbon     float64 `json:"carbon"`
	Cost       float64 `json:"cost"`
	Activities int     `json:"activities"`
}

type ExerciseResult struct {
	Record     Record                  `json:"record"`
	Output     emission.ExerciseOutput `json:"output"`
	Suggestion *emission.Suggestion    `json:"suggestion,omitempty"`
}

type FoodResult struct {
	Record     Record               `json:"record"`
	Output     emission.FoodOutput  `json:"output"`
	Suggestion *emission.Suggestion `json:"suggestion,omitempty"`
}

type TravelResult struct {
	Record     Record                `json:"record"`
	Output     emission.TravelOutput `json:"output"`
	Suggestion *emission.Suggestion  `json:"suggestion,omitempty"`
}
