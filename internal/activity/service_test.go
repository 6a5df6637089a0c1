package activity

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"backend-carbonwallet/internal/emission"
	"backend-carbonwallet/internal/profile"

	"go.uber.org/zap"
)

type memoryStore struct {
	records []Record
	err     error
}

func (m *memoryStore) ListByUser(_ context.Context, userID string, f Filter) ([]Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []Record
	for _, r := range m.records {
		if r.UserID != userID {
			continue
		}
		if f.Type != "" && r.Type != f.Type {
			continue
		}
		if f.Date != "" && r.ActivityDate != f.Date {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryStore) Add(_ context.Context, r Record) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, r)
	return nil
}

type fixedProfiles map[string]*profile.Profile

func (f fixedProfiles) Lookup(_ context.Context, userID string) (*profile.Profile, error) {
	return f[userID], nil
}

type recordingPublisher struct {
	published []Record
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, r Record) error {
	p.published = append(p.published, r)
	return p.err
}

func newTestService(store Store, events EventPublisher) *Service {
	svc := NewService(store, fixedProfiles{}, events, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 23, 30, 5, 0, time.UTC) }
	return svc
}

func TestRecordExercise(t *testing.T) {
	store := &memoryStore{}
	events := &recordingPublisher{}
	svc := newTestService(store, events)

	in := emission.ExerciseInput{Type: emission.ExerciseRunning, Duration: 30, Intensity: emission.IntensityModerate, Frequency: 3}
	res, err := svc.RecordExercise(context.Background(), "user-1", in, false)
	if err != nil {
		t.Fatalf("record exercise: %v", err)
	}

	rec := res.Record
	if rec.Type != emission.ActivityExercise || rec.CarbonEmitted != 1.5 || rec.CostSpent != 0 || rec.Duration != 30 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.ActivityDate != "2024-03-09" || rec.ActivityTime != "23:30:05" || rec.AlternativeApplied {
		t.Fatalf("unexpected stamp: %+v", rec)
	}
	if res.Output.CaloriesBurned != 280 {
		t.Fatalf("expected 280 kcal, got %d", res.Output.CaloriesBurned)
	}
	if res.Suggestion == nil || res.Suggestion.Alternative != "running (high intensity)" {
		t.Fatalf("expected high intensity suggestion, got %+v", res.Suggestion)
	}
	if len(store.records) != 1 || len(events.published) != 1 {
		t.Fatalf("expected one stored and one published record")
	}
}

func TestRecordExerciseApplyUsesProfileWeight(t *testing.T) {
	store := &memoryStore{}
	weight := 50.0
	svc := NewService(store, fixedProfiles{"user-1": {UserID: "user-1", Weight: &weight}}, nil, nil)

	in := emission.ExerciseInput{Type: emission.ExerciseRunning, Duration: 30, Intensity: emission.IntensityModerate, Frequency: 3}
	res, err := svc.RecordExercise(context.Background(), "user-1", in, true)
	if err != nil {
		t.Fatalf("apply exercise: %v", err)
	}
	if !res.Record.AlternativeApplied || res.Output.CaloriesBurned != 250 {
		t.Fatalf("expected applied high intensity at 50kg, got %+v", res)
	}

	var stored emission.ExerciseInput
	if err := json.Unmarshal(res.Record.InputData, &stored); err != nil {
		t.Fatalf("decode input: %v", err)
	}
	if stored.Intensity != emission.IntensityHigh {
		t.Fatalf("expected alternative input to be stored, got %+v", stored)
	}
}

func TestRecordExerciseApplyAtHighestTier(t *testing.T) {
	store := &memoryStore{}
	svc := newTestService(store, nil)

	in := emission.ExerciseInput{Type: emission.ExerciseYoga, Duration: 20, Intensity: emission.IntensityHigh, Frequency: 1}
	if _, err := svc.RecordExercise(context.Background(), "user-1", in, true); !errors.Is(err, ErrNoSuggestion) {
		t.Fatalf("expected ErrNoSuggestion, got %v", err)
	}
	if len(store.records) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestRecordFood(t *testing.T) {
	store := &memoryStore{}
	svc := newTestService(store, nil)

	in := emission.FoodInput{Category: emission.DietNonVegetarian, FoodType: emission.FoodMeat, Quantity: emission.PortionLarge, MealsPerDay: 2}
	res, err := svc.RecordFood(context.Background(), "user-1", in, false)
	if err != nil {
		t.Fatalf("record food: %v", err)
	}
	if res.Record.CarbonEmitted != 8 || res.Output.WeeklyEmission != 56 {
		t.Fatalf("unexpected food result: %+v", res)
	}

	applied, err := svc.RecordFood(context.Background(), "user-1", in, true)
	if err != nil {
		t.Fatalf("apply food: %v", err)
	}
	if !applied.Record.AlternativeApplied || applied.Record.CarbonEmitted != 0 {
		t.Fatalf("expected vegetarian alternative, got %+v", applied.Record)
	}

	vegan := emission.FoodInput{Category: emission.DietVegan, FoodType: emission.FoodRice, Quantity: emission.PortionSmall, MealsPerDay: 1}
	if _, err := svc.RecordFood(context.Background(), "user-1", vegan, true); !errors.Is(err, ErrNoSuggestion) {
		t.Fatalf("expected ErrNoSuggestion for vegan, got %v", err)
	}
}

func TestRecordTravel(t *testing.T) {
	store := &memoryStore{}
	svc := newTestService(store, nil)

	in := emission.TravelInput{Mode: emission.ModeCar, Distance: 20, FuelType: emission.FuelPetrol, Mileage: emission.MileageMedium}
	res, err := svc.RecordTravel(context.Background(), "user-1", in, false)
	if err != nil {
		t.Fatalf("record travel: %v", err)
	}
	if res.Record.Type != emission.ActivityManualTravel || res.Record.CarbonEmitted != 2.4 || res.Record.CostSpent != 2.4 || res.Record.DistanceTravelled != 20 {
		t.Fatalf("unexpected travel record: %+v", res.Record)
	}

	applied, err := svc.RecordTravel(context.Background(), "user-1", in, true)
	if err != nil {
		t.Fatalf("apply travel: %v", err)
	}
	if applied.Record.CarbonEmitted != 0.8 || !applied.Record.AlternativeApplied {
		t.Fatalf("expected public transport record, got %+v", applied.Record)
	}
}

func TestRecordRejectsInvalidInput(t *testing.T) {
	svc := newTestService(&memoryStore{}, nil)
	_, err := svc.RecordTravel(context.Background(), "user-1", emission.TravelInput{Mode: emission.ModeCar, Distance: -1, FuelType: emission.FuelPetrol}, false)
	if !errors.Is(err, emission.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAppendSurvivesPublishFailure(t *testing.T) {
	store := &memoryStore{}
	events := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestService(store, events)

	rec, err := svc.Append(context.Background(), Record{UserID: "user-1", Type: emission.ActivityRealtimeTravel, CarbonEmitted: 1.2})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if rec.ID == "" || len(store.records) != 1 {
		t.Fatalf("expected record to be stored despite publish failure")
	}
}

func TestAppendStoreError(t *testing.T) {
	svc := newTestService(&memoryStore{err: errors.New("disk full")}, nil)
	if _, err := svc.Append(context.Background(), Record{UserID: "user-1", Type: emission.ActivityFood}); err == nil {
		t.Fatalf("expected store error")
	}
}

func TestHistoryAndToday(t *testing.T) {
	store := &memoryStore{}
	svc := newTestService(store, nil)
	ctx := context.Background()

	yesterday := time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC)
	today := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	for _, r := range []Record{
		{UserID: "user-1", Type: emission.ActivityFood, CarbonEmitted: 2, CreatedAt: yesterday},
		{UserID: "user-1", Type: emission.ActivityManualTravel, CarbonEmitted: 1.5, CostSpent: 3, CreatedAt: today},
		{UserID: "user-1", Type: emission.ActivityExercise, CarbonEmitted: 0.5, CreatedAt: today.Add(time.Hour)},
		{UserID: "user-2", Type: emission.ActivityFood, CarbonEmitted: 9, CreatedAt: today},
	} {
		if _, err := svc.Append(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := svc.History(ctx, "user-1", Filter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("history: %v %d", err, len(all))
	}
	if all[0].Type != emission.ActivityExercise {
		t.Fatalf("expected newest first, got %s", all[0].Type)
	}

	food, _ := svc.History(ctx, "user-1", Filter{Type: emission.ActivityFood})
	if len(food) != 1 || food[0].ActivityDate != "2024-03-08" {
		t.Fatalf("unexpected type filter result: %+v", food)
	}

	stats, err := svc.Today(ctx, "user-1", time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if stats.Activities != 2 || stats.Carbon != 2 || stats.Cost != 3 {
		t.Fatalf("unexpected today stats: %+v", stats)
	}
}
