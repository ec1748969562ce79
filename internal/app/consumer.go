package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-hrops/internal/events"
	"go-hrops/internal/messaging/kafka/consumer"
	"go-hrops/internal/notification"
	"go-hrops/internal/profile"
	"go-hrops/internal/shared/config"
	"go-hrops/internal/shared/connection"

	"go.uber.org/zap"
)

const consumerGroup = "hrops-consumer"

// RunConsumer reads the lifecycle and change-feed topics until SIGINT
// or SIGTERM.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("consumer")

	in, err := openInfra(cfg)
	if err != nil {
		return err
	}
	defer in.Close()

	mailer := notification.NewMailer(notification.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
	}, logger)

	lifecycleReader := connection.NewReader(cfg.KafkaBroker, events.SuspensionLifecycleTopic, consumerGroup)
	defer lifecycleReader.Close()
	changeFeedReader := connection.NewReader(cfg.KafkaBroker, events.ChangeFeedTopic, consumerGroup)
	defer changeFeedReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.Run(ctx, lifecycleReader, "suspension-lifecycle",
			consumer.SuspensionLifecycleHandler(profile.NewRepository(in.gormDB), mailer, logger), logger)
	}()
	go func() {
		defer wg.Done()
		consumer.Run(ctx, changeFeedReader, "changefeed",
			consumer.ChangeFeedHandler(in.rdb, logger), logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down consumer")
	cancel()
	wg.Wait()
	return nil
}
