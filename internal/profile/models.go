package profile

import "time"

// Profile holds optional body and lifestyle attributes. Unset numeric fields
// are nil so that "unknown" and zero stay distinct in storage.
type Profile struct {
	UserID        string    `json:"user_id"`
	Age           *int      `json:"age,omitempty"`
	Gender        string    `json:"gender,omitempty"`
	Height        *float64  `json:"height,omitempty"`
	Weight        *float64  `json:"weight,omitempty"`
	ActivityLevel string    `json:"activity_level,omitempty"`
	ProfilePhoto  string    `json:"profile_photo,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WeightKg returns the recorded weight, or 0 when the profile or weight is absent.
func (p *Profile) WeightKg() float64 {
	if p == nil || p.Weight == nil {
		return 0
	}
	return *p.Weight
}
