package analytics

import (
	"context"
	"time"

	"backend-carbonwallet/internal/activity"
)

type RecordLister interface {
	History(ctx context.Context, userID string, f activity.Filter) ([]activity.Record, error)
}

type Service struct {
	records RecordLister
}

func NewService(records RecordLister) *Service {
	return &Service{records: records}
}

func (s *Service) Summary(ctx context.Context, userID string, now time.Time) (Summary, error) {
	records, err := s.records.History(ctx, userID, activity.Filter{})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records, now), nil
}
