package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-hrops/internal/events"
	"go-hrops/internal/notification"
	notificationerrors "go-hrops/internal/notification/errors"
	"go-hrops/internal/profile"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RecipientLookup interface {
	FindByID(ctx context.Context, id string) (*profile.Profile, error)
}

// SuspensionLifecycleHandler emails the affected employee about each
// lifecycle event.
func SuspensionLifecycleHandler(profiles RecipientLookup, mailer notification.Mailer, logger *zap.Logger) HandlerFunc {
	log := logger.Named("suspension_lifecycle")
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.SuspensionLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("%w: decode lifecycle event: %v", ErrPoison, err)
		}

		p, err := profiles.FindByID(ctx, event.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: unknown user %s", ErrPoison, event.UserID)
			}
			return err
		}

		subject, body, ok := notification.LifecycleMessage(p.FullName, event)
		if !ok {
			log.Debug("no email for event", zap.String("event_type", event.EventType))
			return nil
		}
		if err := mailer.Send(ctx, p.Email, subject, body); err != nil {
			if errors.Is(err, notificationerrors.ErrInvalidRecipient) {
				return fmt.Errorf("%w: %v", ErrPoison, err)
			}
			return err
		}

		log.Info("lifecycle email sent",
			zap.String("event_type", event.EventType),
			zap.String("user_id", event.UserID),
			zap.String("suspension_id", event.SuspensionID),
		)
		return nil
	}
}
