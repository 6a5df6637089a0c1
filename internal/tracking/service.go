package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backend-carbonwallet/internal/activity"
	"backend-carbonwallet/internal/observability"

	"go.uber.org/zap"
)

type ActivityAppender interface {
	Append(ctx context.Context, r activity.Record) (activity.Record, error)
}

// Broadcaster pushes snapshots to live subscribers of a session.
type Broadcaster interface {
	Broadcast(sessionID string, payload []byte)
}

// Source is an in-process position feed, such as a device bridge.
type Source interface {
	Subscribe(ctx context.Context) (<-chan Sample, <-chan error)
}

type envelope struct {
	Type      string   `json:"type"`
	Session   *Session `json:"session,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
	Message   string   `json:"message,omitempty"`
}

// Service drives accumulators from persisted snapshots. It takes no locks:
// every mutation loads the latest snapshot, applies one change and saves the
// whole session back.
type Service struct {
	store      Store
	activities ActivityAppender
	hub        Broadcaster
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(store Store, activities ActivityAppender, hub Broadcaster, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:      store,
		activities: activities,
		hub:        hub,
		logger:     logger,
		now:        time.Now,
	}
}

// Start opens a session for the user. An already active session is returned
// as is with resumed set.
func (s *Service) Start(ctx context.Context, userID string, setup Setup) (Session, bool, error) {
	if err := setup.Validate(); err != nil {
		return Session{}, false, err
	}

	active, err := s.store.Active(ctx, userID)
	if err != nil {
		return Session{}, false, err
	}
	if active != nil {
		observability.RecordSessionTransition("resumed")
		return *active, true, nil
	}

	acc := NewAccumulator(userID, setup)
	sess, err := acc.Start(s.now())
	if err != nil {
		return Session{}, false, err
	}
	if err := s.save(ctx, sess); err != nil {
		return Session{}, false, err
	}
	observability.RecordSessionTransition("started")
	s.logger.Info("tracking session started",
		zap.String("session_id", sess.ID),
		zap.String("user_id", userID),
		zap.String("fuel_type", string(sess.FuelType)))
	return sess, false, nil
}

func (s *Service) Sample(ctx context.Context, userID, sessionID string, sample Sample) (Session, error) {
	acc, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return Session{}, err
	}

	accepted, err := acc.Step(sample, s.now())
	if err != nil {
		return Session{}, err
	}
	if !accepted {
		observability.RecordSample("discarded")
		return acc.Session(), nil
	}
	observability.RecordSample("accepted")

	sess := acc.Session()
	if err := s.save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *Service) Pause(ctx context.Context, userID, sessionID string) (Session, error) {
	return s.transition(ctx, userID, sessionID, "paused", (*Accumulator).Pause)
}

func (s *Service) Resume(ctx context.Context, userID, sessionID string) (Session, error) {
	return s.transition(ctx, userID, sessionID, "resumed", (*Accumulator).Resume)
}

// Stop finalizes the session and appends its realtime_travel record.
func (s *Service) Stop(ctx context.Context, userID, sessionID string) (Session, activity.Record, error) {
	acc, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return Session{}, activity.Record{}, err
	}

	sess, rec, err := acc.Stop(s.now())
	if err != nil {
		return Session{}, activity.Record{}, err
	}
	// The record goes in before the stopped snapshot so a failed append
	// leaves the session active and the stop can be retried.
	if s.activities != nil {
		saved, err := s.activities.Append(ctx, rec)
		if err != nil {
			return Session{}, activity.Record{}, fmt.Errorf("record trip: %w", err)
		}
		rec = saved
	}
	if err := s.save(ctx, sess); err != nil {
		return Session{}, activity.Record{}, err
	}

	observability.RecordSessionTransition("stopped")
	s.logger.Info("tracking session stopped",
		zap.String("session_id", sess.ID),
		zap.Float64("distance_km", sess.TotalDistance),
		zap.Float64("carbon_kg", sess.CarbonEmitted))
	return sess, rec, nil
}

func (s *Service) Active(ctx context.Context, userID string) (*Session, error) {
	return s.store.Active(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, sessionID string) (Session, error) {
	acc, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return Session{}, err
	}
	return acc.Session(), nil
}

// ReportSourceError surfaces a position source failure to subscribers. The
// session itself is left unchanged.
func (s *Service) ReportSourceError(_ context.Context, sessionID, message string) {
	s.logger.Warn("position source error", zap.String("session_id", sessionID), zap.String("error", message))
	s.broadcast(sessionID, envelope{Type: "error", SessionID: sessionID, Message: message})
}

// Feed consumes samples one at a time until the context is cancelled, the
// sample channel closes or the session stops accepting samples. Source errors
// are reported and do not end the feed.
func (s *Service) Feed(ctx context.Context, userID, sessionID string, samples <-chan Sample, errs <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.ReportSourceError(ctx, sessionID, err.Error())
		case sample, ok := <-samples:
			if !ok {
				return nil
			}
			if _, err := s.Sample(ctx, userID, sessionID, sample); err != nil {
				if errors.Is(err, ErrInvalidTransition) {
					return nil
				}
				return err
			}
		}
	}
}

// FeedFrom subscribes to src and feeds it into the session.
func (s *Service) FeedFrom(ctx context.Context, userID, sessionID string, src Source) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	samples, errs := src.Subscribe(ctx)
	return s.Feed(ctx, userID, sessionID, samples, errs)
}

func (s *Service) transition(ctx context.Context, userID, sessionID, name string, apply func(*Accumulator) error) (Session, error) {
	acc, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return Session{}, err
	}
	if err := apply(acc); err != nil {
		return Session{}, err
	}
	sess := acc.Session()
	if err := s.save(ctx, sess); err != nil {
		return Session{}, err
	}
	observability.RecordSessionTransition(name)
	return sess, nil
}

func (s *Service) load(ctx context.Context, userID, sessionID string) (*Accumulator, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return Restore(*sess), nil
}

func (s *Service) save(ctx context.Context, sess Session) error {
	if err := s.store.Save(ctx, sess); err != nil {
		return err
	}
	s.broadcast(sess.ID, envelope{Type: "snapshot", Session: &sess})
	return nil
}

func (s *Service) broadcast(sessionID string, msg envelope) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Warn("encode stream message", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	s.hub.Broadcast(sessionID, payload)
}
