package profile

import (
	"context"
	"errors"
	"fmt"

	"backend-carbonwallet/internal/db"

	"github.com/jackc/pgx/v5"
)

// Store persists one profile per user.
type Store interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Save(ctx context.Context, p Profile) (Profile, error)
}

type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

// Get returns nil without error when the user has no profile yet.
func (s *PostgresStore) Get(ctx context.Context, userID string) (*Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, age, gender, height_cm, weight_kg, activity_level, profile_photo, updated_at
		FROM profiles WHERE user_id = $1
	`, userID)

	var p Profile
	if err := row.Scan(&p.UserID, &p.Age, &p.Gender, &p.Height, &p.Weight, &p.ActivityLevel, &p.ProfilePhoto, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) Save(ctx context.Context, p Profile) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO profiles (user_id, age, gender, height_cm, weight_kg, activity_level, profile_photo, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now())
		ON CONFLICT (user_id) DO UPDATE SET
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			activity_level = EXCLUDED.activity_level,
			profile_photo = EXCLUDED.profile_photo,
			updated_at = now()
		RETURNING updated_at
	`, p.UserID, p.Age, p.Gender, p.Height, p.Weight, p.ActivityLevel, p.ProfilePhoto)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		return Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}
