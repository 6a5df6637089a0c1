package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"backend-carbonwallet/internal/emission"
	"backend-carbonwallet/internal/observability"
	"backend-carbonwallet/internal/profile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoSuggestion is returned when an alternative is requested for an input
// that has none.
var ErrNoSuggestion = errors.New("no alternative available for this input")

type ProfileReader interface {
	Lookup(ctx context.Context, userID string) (*profile.Profile, error)
}

// EventPublisher receives every persisted record. Failures are logged only.
type EventPublisher interface {
	Publish(ctx context.Context, r Record) error
}

type Service struct {
	store    Store
	profiles ProfileReader
	events   EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(store Store, profiles ProfileReader, events EventPublisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		profiles: profiles,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// RecordExercise stores the submitted workout, or its next-intensity
// alternative when apply is set.
func (s *Service) RecordExercise(ctx context.Context, userID string, in emission.ExerciseInput, apply bool) (ExerciseResult, error) {
	if err := in.Validate(); err != nil {
		return ExerciseResult{}, err
	}
	p, err := s.lookupProfile(ctx, userID)
	if err != nil {
		return ExerciseResult{}, err
	}

	out := emission.ComputeExercise(in, p)
	suggestion, alt := emission.SuggestExercise(in, out, p)
	if apply {
		if suggestion == nil {
			return ExerciseResult{}, ErrNoSuggestion
		}
		in = alt
		out = emission.ComputeExercise(in, p)
	}

	rec, err := s.newRecord(userID, emission.ActivityExercise, in, apply)
	if err != nil {
		return ExerciseResult{}, err
	}
	rec.CarbonEmitted = out.CarbonImpact
	rec.Duration = int(math.Round(in.Duration))

	rec, err = s.Append(ctx, rec)
	if err != nil {
		return ExerciseResult{}, err
	}
	return ExerciseResult{Record: rec, Output: out, Suggestion: suggestion}, nil
}

func (s *Service) RecordFood(ctx context.Context, userID string, in emission.FoodInput, apply bool) (FoodResult, error) {
	if err := in.Validate(); err != nil {
		return FoodResult{}, err
	}

	out := emission.ComputeFood(in)
	suggestion, alt := emission.SuggestFood(in, out)
	if apply {
		if suggestion == nil {
			return FoodResult{}, ErrNoSuggestion
		}
		in = alt
		out = emission.ComputeFood(in)
	}

	rec, err := s.newRecord(userID, emission.ActivityFood, in, apply)
	if err != nil {
		return FoodResult{}, err
	}
	rec.CarbonEmitted = out.DailyEmission

	rec, err = s.Append(ctx, rec)
	if err != nil {
		return FoodResult{}, err
	}
	return FoodResult{Record: rec, Output: out, Suggestion: suggestion}, nil
}

func (s *Service) RecordTravel(ctx context.Context, userID string, in emission.TravelInput, apply bool) (TravelResult, error) {
	if err := in.Validate(); err != nil {
		return TravelResult{}, err
	}

	out := emission.ComputeTravel(in)
	suggestion, alt := emission.SuggestTravel(in, out)
	if apply {
		if suggestion == nil {
			return TravelResult{}, ErrNoSuggestion
		}
		in = alt
		out = emission.ComputeTravel(in)
	}

	rec, err := s.newRecord(userID, emission.ActivityManualTravel, in, apply)
	if err != nil {
		return TravelResult{}, err
	}
	rec.CarbonEmitted = out.CarbonEmitted
	rec.CostSpent = out.MoneySpent
	rec.DistanceTravelled = in.Distance

	rec, err = s.Append(ctx, rec)
	if err != nil {
		return TravelResult{}, err
	}
	return TravelResult{Record: rec, Output: out, Suggestion: suggestion}, nil
}

// Append persists a fully built record, filling in the id and timestamps
// when missing, then announces it.
func (s *Service) Append(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.Stamp(s.now())
	} else {
		rec.Stamp(rec.CreatedAt)
	}

	if err := s.store.Add(ctx, rec); err != nil {
		return Record{}, err
	}
	observability.RecordActivity(string(rec.Type), rec.AlternativeApplied, rec.CarbonEmitted)

	if s.events != nil {
		err := s.events.Publish(ctx, rec)
		observability.RecordEventPublished(err)
		if err != nil {
			s.logger.Warn("activity event publish failed",
				zap.String("activity_id", rec.ID),
				zap.String("activity_type", string(rec.Type)),
				zap.Error(err))
		}
	}
	return rec, nil
}

func (s *Service) History(ctx context.Context, userID string, f Filter) ([]Record, error) {
	return s.store.ListByUser(ctx, userID, f)
}

// Today sums the records dated on now's UTC calendar day.
func (s *Service) Today(ctx context.Context, userID string, now time.Time) (DayStats, error) {
	date := now.UTC().Format(dateLayout)
	records, err := s.store.ListByUser(ctx, userID, Filter{Date: date})
	if err != nil {
		return DayStats{}, err
	}

	stats := DayStats{Date: date}
	for _, r := range records {
		if r.ActivityDate != date {
			continue
		}
		stats.Carbon += r.CarbonEmitted
		stats.Cost += r.CostSpent
		stats.Activities++
	}
	return stats, nil
}

func (s *Service) newRecord(userID string, t emission.ActivityType, input any, applied bool) (Record, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return Record{}, fmt.Errorf("encode input: %w", err)
	}
	return Record{
		UserID:             userID,
		Type:               t,
		InputData:          raw,
		AlternativeApplied: applied,
	}, nil
}

func (s *Service) lookupProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	if s.profiles == nil {
		return nil, nil
	}
	p, err := s.profiles.Lookup(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}
