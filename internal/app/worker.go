package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-hrops/internal/messaging/kafka/producer"
	"go-hrops/internal/shared/config"
	"go-hrops/internal/shared/connection"
	"go-hrops/internal/suspension"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RunWorker publishes the outbox to Kafka and runs the scheduled jobs
// until SIGINT or SIGTERM.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("worker")

	in, err := openInfra(cfg)
	if err != nil {
		return err
	}
	defer in.Close()

	writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.DBMaxRetries)
	if err != nil {
		return err
	}
	defer writer.Close()

	repos := newRepositories(in)
	svc, err := newServices(in, repos, newObjectStore(cfg))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(ctx, repos.outbox, writer, logger, cfg.OutboxPollInterval)

	scheduler := cron.New(cron.WithLocation(time.UTC))
	if _, err := scheduler.AddFunc(cfg.AttendanceCron, func() {
		jobCtx, done := context.WithTimeout(ctx, 5*time.Minute)
		defer done()
		res, err := svc.attendance.ProcessDaily(jobCtx, time.Now().UTC())
		if err != nil {
			logger.Error("daily attendance job failed", zap.Error(err))
			return
		}
		logger.Info("daily attendance job done", zap.Any("result", res))
	}); err != nil {
		return err
	}
	if _, err := scheduler.AddFunc(cfg.SuspensionCron, func() {
		jobCtx, done := context.WithTimeout(ctx, 5*time.Minute)
		defer done()
		n, err := completeAllExpired(jobCtx, svc.suspensions, time.Now().UTC())
		if err != nil {
			logger.Error("suspension expiry job failed", zap.Error(err))
			return
		}
		logger.Info("suspension expiry job done", zap.Int("completed", n))
	}); err != nil {
		return err
	}
	if _, err := scheduler.AddFunc("@daily", func() {
		n, err := repos.outbox.DeleteSentBefore(ctx, time.Now().Add(-cfg.OutboxRetention))
		if err != nil {
			logger.Error("outbox cleanup failed", zap.Error(err))
			return
		}
		logger.Info("outbox cleanup done", zap.Int64("deleted", n))
	}); err != nil {
		return err
	}
	scheduler.Start()
	logger.Info("worker started",
		zap.String("attendance_cron", cfg.AttendanceCron),
		zap.String("suspension_cron", cfg.SuspensionCron),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker")
	cancel()
	<-scheduler.Stop().Done()
	return nil
}

type expiredCompleter interface {
	CompleteExpired(ctx context.Context, now time.Time) (int, error)
}

// completeAllExpired repeats CompleteExpired until a batch comes back
// short, so a backlog is drained in one run.
func completeAllExpired(ctx context.Context, c expiredCompleter, now time.Time) (int, error) {
	total := 0
	for {
		n, err := c.CompleteExpired(ctx, now)
		total += n
		if err != nil {
			return total, err
		}
		if n < suspension.CompleteBatchSize || ctx.Err() != nil {
			return total, ctx.Err()
		}
	}
}
