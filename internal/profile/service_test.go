package profile

import (
	"context"
	"errors"
	"testing"
)

type memoryStore struct {
	profiles map[string]Profile
	err      error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{profiles: map[string]Profile{}}
}

func (m *memoryStore) Get(_ context.Context, userID string) (*Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memoryStore) Save(_ context.Context, p Profile) (Profile, error) {
	if m.err != nil {
		return Profile{}, m.err
	}
	m.profiles[p.UserID] = p
	return p, nil
}

func TestServiceGetEmptyProfile(t *testing.T) {
	svc := NewService(newMemoryStore())
	p, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.UserID != "user-1" || p.Weight != nil {
		t.Fatalf("expected empty profile, got %+v", p)
	}
}

func TestServiceUpdateKeepsPhoto(t *testing.T) {
	store := newMemoryStore()
	store.profiles["user-1"] = Profile{UserID: "user-1", ProfilePhoto: "https://storage.example/me.png"}
	svc := NewService(store)

	p, err := svc.Update(context.Background(), "user-1", Profile{Weight: floatPtr(72), ActivityLevel: "sedentary"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.ProfilePhoto != "https://storage.example/me.png" || p.WeightKg() != 72 {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestServiceUpdateRejectsInvalid(t *testing.T) {
	svc := NewService(newMemoryStore())
	cases := []Profile{
		{Age: intPtr(0)},
		{Weight: floatPtr(-1)},
		{Height: floatPtr(0)},
		{Gender: "robot"},
		{ActivityLevel: "couch"},
	}
	for _, in := range cases {
		if _, err := svc.Update(context.Background(), "user-1", in); !errors.Is(err, ErrInvalidProfile) {
			t.Fatalf("expected invalid profile for %+v, got %v", in, err)
		}
	}
}

func TestServiceSetPhoto(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store)
	if _, err := svc.SetPhoto(context.Background(), "user-1", "https://storage.example/a.png"); err != nil {
		t.Fatalf("set photo: %v", err)
	}
	if store.profiles["user-1"].ProfilePhoto != "https://storage.example/a.png" {
		t.Fatalf("photo not saved")
	}
}

func TestServiceStoreError(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("down")
	svc := NewService(store)
	if _, err := svc.Get(context.Background(), "user-1"); err == nil {
		t.Fatalf("expected error")
	}
}
