package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"backend-carbonwallet/internal/activity"
	"backend-carbonwallet/internal/emission"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	topic    string
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func stubWriters(t *testing.T, err error) *[]*fakeWriter {
	t.Helper()
	created := &[]*fakeWriter{}
	old := newWriterFn
	newWriterFn = func(_ []string, topic string) messageWriter {
		w := &fakeWriter{topic: topic, err: err}
		*created = append(*created, w)
		return w
	}
	t.Cleanup(func() { newWriterFn = old })
	return created
}

func sampleRecord() activity.Record {
	return activity.Record{
		ID:            "rec-1",
		UserID:        "user-1",
		Type:          emission.ActivityFood,
		CarbonEmitted: 1.25,
		CreatedAt:     time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublishWritesKeyedEvent(t *testing.T) {
	created := stubWriters(t, nil)
	p := NewPublisher([]string{"localhost:9092"}, "carbon.activity.recorded")

	require.NoError(t, p.Publish(context.Background(), sampleRecord()))
	require.NoError(t, p.Publish(context.Background(), sampleRecord()))

	require.Len(t, *created, 1, "writer is reused per topic")
	w := (*created)[0]
	assert.Equal(t, "carbon.activity.recorded", w.topic)
	require.Len(t, w.messages, 2)

	msg := w.messages[0]
	assert.Equal(t, "user-1", string(msg.Key))
	var ev ActivityEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, ActivityRecorded, ev.EventType)
	assert.Equal(t, "user-1", ev.UserID)
	assert.Equal(t, "rec-1", ev.Activity.ID)
	assert.NotEmpty(t, ev.EventID)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishWithoutBrokersIsNoop(t *testing.T) {
	created := stubWriters(t, nil)
	p := NewPublisher(nil, "carbon.activity.recorded")

	assert.False(t, p.Enabled())
	require.NoError(t, p.Publish(context.Background(), sampleRecord()))
	assert.Empty(t, *created)
	assert.NoError(t, p.Close())
}

func TestPublishWrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	stubWriters(t, boom)
	p := NewPublisher([]string{"localhost:9092"}, "topic")

	err := p.Publish(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, boom)
}
