package producer_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOutboxRepository struct {
	pending []kafka.OutboxEvent
	sent    []string
	failed  map[string]string
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.pending = append(f.pending, event)
	return nil
}
func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.pending, nil
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}
func (f *fakeOutboxRepository) DeleteSentBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

type fakeWriter struct {
	messages []kafkago.Message
	failFor  string
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Key) == w.failFor {
			return errors.New("broker unavailable")
		}
		w.messages = append(w.messages, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	repo := &fakeOutboxRepository{pending: []kafka.OutboxEvent{
		{ID: "o1", RequestID: "rid-1", AggregateID: "s1", EventType: "suspension.created", Topic: "ops.suspension.lifecycle.v1", Payload: []byte(`{}`)},
		{ID: "o2", AggregateID: "broken", EventType: "suspension.activated", Topic: "ops.suspension.lifecycle.v1", Payload: []byte(`{}`)},
	}}
	writer := &fakeWriter{failFor: "broken"}

	sent, err := producer.ProcessPendingEvents(context.Background(), repo, writer, zap.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"o1"}, repo.sent)
	assert.Contains(t, repo.failed["o2"], "broker unavailable")

	assert.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	assert.Equal(t, "ops.suspension.lifecycle.v1", msg.Topic)
	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "suspension.created", headers["event_type"])
	assert.Equal(t, "rid-1", headers["request_id"])
}

func TestProcessPendingEvents_Empty(t *testing.T) {
	sent, err := producer.ProcessPendingEvents(context.Background(), &fakeOutboxRepository{}, &fakeWriter{}, zap.NewNop())
	assert.NoError(t, err)
	assert.Zero(t, sent)
}
