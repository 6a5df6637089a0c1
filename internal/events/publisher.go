package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"backend-carbonwallet/internal/activity"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const ActivityRecorded = "activity.recorded"

// ActivityEvent is the JSON body written for every persisted activity.
type ActivityEvent struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	UserID     string          `json:"user_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Activity   activity.Record `json:"activity"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var newWriterFn = func(brokers []string, topic string) messageWriter {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
}

// Publisher lazily opens one writer per topic. With no brokers configured
// every publish is a no-op.
type Publisher struct {
	brokers []string
	topic   string

	mu      sync.Mutex
	writers map[string]messageWriter
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		brokers: brokers,
		topic:   topic,
		writers: make(map[string]messageWriter),
	}
}

func (p *Publisher) Enabled() bool {
	return len(p.brokers) > 0 && p.topic != ""
}

// Publish writes rec keyed by user id so one user's events stay ordered
// within a partition.
func (p *Publisher) Publish(ctx context.Context, rec activity.Record) error {
	if !p.Enabled() {
		return nil
	}
	body, err := json.Marshal(ActivityEvent{
		EventID:    uuid.NewString(),
		EventType:  ActivityRecorded,
		UserID:     rec.UserID,
		OccurredAt: rec.CreatedAt,
		Activity:   rec,
	})
	if err != nil {
		return fmt.Errorf("encode activity event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(rec.UserID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ActivityRecorded)},
		},
	}
	if err := p.writerForTopic(p.topic).WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", p.topic, err)
	}
	return nil
}

func (p *Publisher) writerForTopic(topic string) messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}
	writer := newWriterFn(p.brokers, topic)
	p.writers[topic] = writer
	return writer
}

// Close releases all writers.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}
