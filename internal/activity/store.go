package activity

import (
	"context"
	"fmt"
	"time"

	"backend-carbonwallet/internal/db"
	"backend-carbonwallet/internal/emission"
)

// Store is the append-only activity log.
type Store interface {
	ListByUser(ctx context.Context, userID string, f Filter) ([]Record, error)
	Add(ctx context.Context, r Record) error
}

type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

// ListByUser returns the user's records newest first.
func (s *PostgresStore) ListByUser(ctx context.Context, userID string, f Filter) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, activity_type, input_data, carbon_emitted, cost_spent,
		       distance_travelled, duration_min, alternative_applied, occurred_at
		FROM activities
		WHERE user_id = $1
		  AND ($2::text = '' OR activity_type = $2::text)
		  AND ($3::text = '' OR to_char(occurred_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') = $3::text)
		ORDER BY occurred_at DESC
	`, userID, string(f.Type), f.Date)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r            Record
			activityType string
			input        []byte
			occurred     time.Time
		)
		if err := rows.Scan(&r.ID, &r.UserID, &activityType, &input, &r.CarbonEmitted, &r.CostSpent,
			&r.DistanceTravelled, &r.Duration, &r.AlternativeApplied, &occurred); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		r.Type = emission.ActivityType(activityType)
		r.InputData = input
		r.Stamp(occurred)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) Add(ctx context.Context, r Record) error {
	input := []byte(r.InputData)
	if len(input) == 0 {
		input = []byte("{}")
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO activities (id, user_id, activity_type, occurred_at, input_data, carbon_emitted,
		                        cost_spent, distance_travelled, duration_min, alternative_applied, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$4)
	`, r.ID, r.UserID, string(r.Type), r.CreatedAt, input, r.CarbonEmitted, r.CostSpent,
		r.DistanceTravelled, r.Duration, r.AlternativeApplied)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
