package consumer

import (
	"context"
	"errors"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader a consumer loop needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ErrPoison marks a message that can never be handled. It is committed and
// dropped instead of retried.
var ErrPoison = errors.New("poison message")

type HandlerFunc func(ctx context.Context, msg kafkago.Message) error

const maxAttempts = 3

var retryBackoff = 500 * time.Millisecond

// Run fetches, handles and commits messages until ctx is cancelled. A
// message whose handler keeps failing is left uncommitted so the group
// sees it again after a restart.
func Run(ctx context.Context, reader MessageReader, name string, handle HandlerFunc, logger *zap.Logger) {
	log := logger.Named("kafka.consumer." + name)
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		err = handleWithRetry(ctx, msg, handle)
		switch {
		case err == nil:
		case errors.Is(err, ErrPoison):
			log.Warn("dropping message", zap.Int64("offset", msg.Offset), zap.Error(err))
		case ctx.Err() != nil:
			log.Info("consumer stopped")
			return
		default:
			log.Error("handle message failed, leaving uncommitted",
				zap.Int64("offset", msg.Offset),
				zap.Int("partition", msg.Partition),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func handleWithRetry(ctx context.Context, msg kafkago.Message, handle HandlerFunc) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = handle(ctx, msg); err == nil || errors.Is(err, ErrPoison) {
			return err
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return err
}
