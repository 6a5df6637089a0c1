package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend-carbonwallet/internal/db"
	"backend-carbonwallet/internal/emission"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("tracking session not found")

// Store keeps full session snapshots. Save overwrites; the last write wins.
type Store interface {
	Active(ctx context.Context, userID string) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, s Session) error
}

type PostgresStore struct {
	db db.Querier
}

func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

const sessionColumns = `id, user_id, vehicle_type, fuel_type, vehicle_age, started_at, ended_at,
		       total_distance_km, carbon_emitted, money_spent, average_speed_kmh, is_active, is_paused, waypoints`

func (s *PostgresStore) Active(ctx context.Context, userID string) (*Session, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM tracking_sessions
		WHERE user_id = $1 AND is_active
		ORDER BY started_at DESC
		LIMIT 1
	`, userID)
	sess, err := scanSession(row)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	return sess, err
}

func (s *PostgresStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM tracking_sessions
		WHERE id = $1
	`, sessionID)
	return scanSession(row)
}

func (s *PostgresStore) Save(ctx context.Context, sess Session) error {
	waypoints, err := json.Marshal(waypointsOrEmpty(sess.Waypoints))
	if err != nil {
		return fmt.Errorf("encode waypoints: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO tracking_sessions (id, user_id, vehicle_type, fuel_type, vehicle_age, started_at, ended_at,
		                               total_distance_km, carbon_emitted, money_spent, average_speed_kmh,
		                               is_active, is_paused, waypoints)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (id) DO UPDATE SET
			ended_at = EXCLUDED.ended_at,
			total_distance_km = EXCLUDED.total_distance_km,
			carbon_emitted = EXCLUDED.carbon_emitted,
			money_spent = EXCLUDED.money_spent,
			average_speed_kmh = EXCLUDED.average_speed_kmh,
			is_active = EXCLUDED.is_active,
			is_paused = EXCLUDED.is_paused,
			waypoints = EXCLUDED.waypoints
	`, sess.ID, sess.UserID, string(sess.VehicleType), string(sess.FuelType), sess.VehicleAge, sess.StartTime, sess.EndTime,
		sess.TotalDistance, sess.CarbonEmitted, sess.MoneySpent, sess.AverageSpeed, sess.IsActive, sess.IsPaused, waypoints)
	if err != nil {
		return fmt.Errorf("save tracking session: %w", err)
	}
	return nil
}

func scanSession(row pgx.Row) (*Session, error) {
	var (
		sess         Session
		vehicleType  string
		fuelType     string
		endedAt      *time.Time
		rawWaypoints []byte
	)
	err := row.Scan(&sess.ID, &sess.UserID, &vehicleType, &fuelType, &sess.VehicleAge, &sess.StartTime, &endedAt,
		&sess.TotalDistance, &sess.CarbonEmitted, &sess.MoneySpent, &sess.AverageSpeed, &sess.IsActive, &sess.IsPaused, &rawWaypoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("scan tracking session: %w", err)
	}
	sess.VehicleType = VehicleType(vehicleType)
	sess.FuelType = emission.FuelType(fuelType)
	sess.EndTime = endedAt
	if len(rawWaypoints) > 0 {
		if err := json.Unmarshal(rawWaypoints, &sess.Waypoints); err != nil {
			return nil, fmt.Errorf("decode waypoints: %w", err)
		}
	}
	return &sess, nil
}

func waypointsOrEmpty(w []Waypoint) []Waypoint {
	if w == nil {
		return []Waypoint{}
	}
	return w
}

// RedisStore keeps snapshots as JSON documents with a per-user pointer to
// the active session.
type RedisStore struct {
	client      *redis.Client
	finishedTTL time.Duration
}

const finishedSessionTTL = 7 * 24 * time.Hour

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, finishedTTL: finishedSessionTTL}
}

func sessionKey(id string) string { return "carbon:tracking:session:" + id }
func activeKey(userID string) string { return "carbon:tracking:active:" + userID }

func (s *RedisStore) Active(ctx context.Context, userID string) (*Session, error) {
	id, err := s.client.Get(ctx, activeKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active session: %w", err)
	}
	sess, err := s.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !sess.IsActive {
		return nil, nil
	}
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tracking session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode tracking session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess Session) error {
	sess.Waypoints = waypointsOrEmpty(sess.Waypoints)
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode tracking session: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if sess.IsActive {
			pipe.Set(ctx, sessionKey(sess.ID), raw, 0)
			pipe.Set(ctx, activeKey(sess.UserID), sess.ID, 0)
			return nil
		}
		pipe.Set(ctx, sessionKey(sess.ID), raw, s.finishedTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save tracking session: %w", err)
	}

	if !sess.IsActive {
		current, err := s.client.Get(ctx, activeKey(sess.UserID)).Result()
		if err == nil && current == sess.ID {
			if err := s.client.Del(ctx, activeKey(sess.UserID)).Err(); err != nil {
				return fmt.Errorf("clear active session: %w", err)
			}
		}
	}
	return nil
}
