package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-hrops/internal/events"
	"go-hrops/internal/profile"
	"go-hrops/internal/profile/profiletest"
	"go-hrops/internal/project"
	"go-hrops/internal/settings"
	"go-hrops/internal/task"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReader struct {
	queue     []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.queue) == 0 {
		f.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := f.queue[0]
	f.queue = f.queue[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func runAll(t *testing.T, handle HandlerFunc, msgs ...kafkago.Message) *fakeReader {
	t.Helper()
	retryBackoff = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	reader := &fakeReader{queue: msgs, cancel: cancel}
	Run(ctx, reader, "test", handle, zap.NewNop())
	return reader
}

func TestRun_CommitsHandledAndPoison(t *testing.T) {
	attempts := map[int64]int{}
	handle := func(ctx context.Context, msg kafkago.Message) error {
		attempts[msg.Offset]++
		switch msg.Offset {
		case 2:
			return ErrPoison
		case 3:
			return errors.New("smtp down")
		}
		return nil
	}

	reader := runAll(t, handle,
		kafkago.Message{Offset: 1},
		kafkago.Message{Offset: 2},
		kafkago.Message{Offset: 3},
		kafkago.Message{Offset: 4},
	)

	assert.Equal(t, []int64{1, 2, 4}, reader.committed)
	assert.Equal(t, 1, attempts[2], "poison is not retried")
	assert.Equal(t, maxAttempts, attempts[3])
}

func TestRun_TransientFailureRecovers(t *testing.T) {
	calls := 0
	handle := func(ctx context.Context, msg kafkago.Message) error {
		calls++
		if calls < 2 {
			return errors.New("blip")
		}
		return nil
	}

	reader := runAll(t, handle, kafkago.Message{Offset: 7})
	assert.Equal(t, []int64{7}, reader.committed)
}

type recordingMailer struct {
	to, subject, body string
	err               error
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

func lifecycleMessage(t *testing.T, e events.SuspensionLifecycleEvent) kafkago.Message {
	raw, err := json.Marshal(e)
	require.NoError(t, err)
	return kafkago.Message{Value: raw}
}

func TestSuspensionLifecycleHandler(t *testing.T) {
	person := profile.Profile{ID: uuid.New(), FullName: "Dewi", Email: "dewi@example.com"}
	profiles := profiletest.NewMemoryRepository(person)

	t.Run("emails the employee", func(t *testing.T) {
		mailer := &recordingMailer{}
		h := SuspensionLifecycleHandler(profiles, mailer, zap.NewNop())

		err := h(context.Background(), lifecycleMessage(t, events.SuspensionLifecycleEvent{
			EventType: events.EventSuspensionCompleted,
			UserID:    person.ID.String(),
		}))
		require.NoError(t, err)
		assert.Equal(t, "dewi@example.com", mailer.to)
		assert.Equal(t, "Your suspension has ended", mailer.subject)
	})

	t.Run("unknown user is poison", func(t *testing.T) {
		h := SuspensionLifecycleHandler(profiles, &recordingMailer{}, zap.NewNop())
		err := h(context.Background(), lifecycleMessage(t, events.SuspensionLifecycleEvent{
			EventType: events.EventSuspensionCompleted,
			UserID:    uuid.NewString(),
		}))
		assert.ErrorIs(t, err, ErrPoison)
	})

	t.Run("garbage is poison", func(t *testing.T) {
		h := SuspensionLifecycleHandler(profiles, &recordingMailer{}, zap.NewNop())
		err := h(context.Background(), kafkago.Message{Value: []byte("{")})
		assert.ErrorIs(t, err, ErrPoison)
	})

	t.Run("mail failure is retried", func(t *testing.T) {
		h := SuspensionLifecycleHandler(profiles, &recordingMailer{err: errors.New("smtp down")}, zap.NewNop())
		err := h(context.Background(), lifecycleMessage(t, events.SuspensionLifecycleEvent{
			EventType: events.EventSuspensionActivated,
			UserID:    person.ID.String(),
		}))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrPoison)
	})
}

func TestInvalidationKeys(t *testing.T) {
	tests := []struct {
		name  string
		event events.ChangeEvent
		want  []string
	}{
		{"setting", events.NewChangeEvent(events.TableSystemSettings, events.OpUpdate, "late_threshold", "", ""), settings.CacheKeys("late_threshold")},
		{"project", events.NewChangeEvent(events.TableProjects, events.OpInsert, "p1", "", ""), []string{project.AllCacheKey}},
		{"task message", events.NewChangeEvent(events.TableTaskMessages, events.OpInsert, "m1", "t1", ""), []string{task.MessagesCacheKey("t1")}},
		{"task purge", events.NewChangeEvent(events.TableTasks, events.OpDelete, "t1", "", ""), []string{task.MessagesCacheKey("t1")}},
		{"task update", events.NewChangeEvent(events.TableTasks, events.OpUpdate, "t1", "", ""), nil},
		{"inventory", events.NewChangeEvent(events.TableInventoryItems, events.OpUpdate, "i1", "t1", ""), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InvalidationKeys(tt.event))
		})
	}
}

func TestChangeFeedHandler(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	h := ChangeFeedHandler(rdb, zap.NewNop())

	raw, _ := json.Marshal(events.NewChangeEvent(events.TableTaskMessages, events.OpInsert, "m1", "t1", "u1"))
	mock.ExpectDel(task.MessagesCacheKey("t1")).SetVal(1)
	require.NoError(t, h(context.Background(), kafkago.Message{Value: raw}))

	raw, _ = json.Marshal(events.NewChangeEvent(events.TableInventoryItems, events.OpUpdate, "i1", "", ""))
	require.NoError(t, h(context.Background(), kafkago.Message{Value: raw}))

	assert.NoError(t, mock.ExpectationsWereMet())
}
