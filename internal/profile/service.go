package profile

import (
	"context"
	"errors"
	"fmt"
)

var ErrInvalidProfile = errors.New("invalid profile")

var (
	validGenders = map[string]bool{"": true, "male": true, "female": true, "other": true}
	validLevels  = map[string]bool{
		"":                  true,
		"sedentary":         true,
		"lightly_active":    true,
		"moderately_active": true,
		"very_active":       true,
	}
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns the stored profile, or an empty one for users who never saved.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	p, err := s.store.Get(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if p == nil {
		return Profile{UserID: userID}, nil
	}
	return *p, nil
}

// Lookup exposes the raw store result so callers can tell "no profile" from an empty one.
func (s *Service) Lookup(ctx context.Context, userID string) (*Profile, error) {
	return s.store.Get(ctx, userID)
}

// Update replaces the editable attributes. The photo is kept unless the
// update carries a new one.
func (s *Service) Update(ctx context.Context, userID string, in Profile) (Profile, error) {
	if err := validate(in); err != nil {
		return Profile{}, err
	}
	current, err := s.store.Get(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	in.UserID = userID
	if in.ProfilePhoto == "" && current != nil {
		in.ProfilePhoto = current.ProfilePhoto
	}
	return s.store.Save(ctx, in)
}

func (s *Service) SetPhoto(ctx context.Context, userID, url string) (Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	p.ProfilePhoto = url
	return s.store.Save(ctx, p)
}

func validate(p Profile) error {
	if p.Age != nil && (*p.Age <= 0 || *p.Age > 130) {
		return fmt.Errorf("%w: age out of range", ErrInvalidProfile)
	}
	if p.Height != nil && *p.Height <= 0 {
		return fmt.Errorf("%w: height must be positive", ErrInvalidProfile)
	}
	if p.Weight != nil && *p.Weight <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidProfile)
	}
	if !validGenders[p.Gender] {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidProfile, p.Gender)
	}
	if !validLevels[p.ActivityLevel] {
		return fmt.Errorf("%w: unknown activity level %q", ErrInvalidProfile, p.ActivityLevel)
	}
	return nil
}
