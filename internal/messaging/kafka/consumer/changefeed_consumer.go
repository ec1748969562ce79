package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-hrops/internal/events"
	"go-hrops/internal/project"
	"go-hrops/internal/settings"
	"go-hrops/internal/task"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// InvalidationKeys lists the cache entries made stale by a change.
func InvalidationKeys(e events.ChangeEvent) []string {
	switch e.Table {
	case events.TableSystemSettings:
		return settings.CacheKeys(e.RecordID)
	case events.TableProjects:
		return []string{project.AllCacheKey}
	case events.TableTaskMessages:
		if e.ParentID != "" {
			return []string{task.MessagesCacheKey(e.ParentID)}
		}
	case events.TableTasks:
		if e.Op == events.OpDelete {
			return []string{task.MessagesCacheKey(e.RecordID)}
		}
	}
	return nil
}

// ChangeFeedHandler drops Redis entries other API instances may still hold.
func ChangeFeedHandler(rdb *redis.Client, logger *zap.Logger) HandlerFunc {
	log := logger.Named("changefeed")
	return func(ctx context.Context, msg kafkago.Message) error {
		var event events.ChangeEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("%w: decode change event: %v", ErrPoison, err)
		}

		keys := InvalidationKeys(event)
		if len(keys) == 0 {
			return nil
		}
		if err := rdb.Del(ctx, keys...).Err(); err != nil {
			return err
		}
		log.Debug("cache invalidated", zap.String("event_type", event.EventType), zap.Strings("keys", keys))
		return nil
	}
}
