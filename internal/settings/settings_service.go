package settings

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"time"

	"go-hrops/internal/events"
	"go-hrops/internal/messaging/kafka"
	settingserrors "go-hrops/internal/settings/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	cacheTTL    = 30 * time.Minute
	allCacheKey = "settings:all"
)

var (
	keyPattern   = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)*$`)
	clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// CacheKey is the Redis key holding the raw JSON value of one setting.
func CacheKey(key string) string {
	return "settings:key:" + key
}

// CacheKeys lists every Redis key a write to key makes stale.
func CacheKeys(key string) []string {
	return []string{CacheKey(key), allCacheKey}
}

type Service interface {
	GetAll(ctx context.Context) ([]SettingResponse, error)
	Get(ctx context.Context, key string) (SettingResponse, error)
	Upsert(ctx context.Context, actorID, key string, req UpsertSettingRequest) (SettingResponse, error)
	String(ctx context.Context, key, fallback string) string
	Int(ctx context.Context, key string, fallback int) int
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	outbox kafka.OutboxRepository
	group  singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("settings.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("settings.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, outbox: outbox, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]SettingResponse, error) {
	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, allCacheKey).Result(); err == nil {
			var cached []SettingResponse
			if json.Unmarshal([]byte(val), &cached) == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("settings cache read failed", zap.Error(err))
		}
	}

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(rows))
	resp := make([]SettingResponse, 0, len(rows)+len(Defaults))
	for _, r := range rows {
		seen[r.Key] = true
		resp = append(resp, mapToResponse(r))
	}
	for key, value := range Defaults {
		if !seen[key] {
			resp = append(resp, SettingResponse{Key: key, Value: json.RawMessage(value), IsDefault: true})
		}
	}
	sort.Slice(resp, func(i, j int) bool { return resp[i].Key < resp[j].Key })

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			s.rdb.Set(ctx, allCacheKey, string(payload), cacheTTL)
		}
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, key string) (SettingResponse, error) {
	if !keyPattern.MatchString(key) {
		return SettingResponse{}, settingserrors.ErrInvalidKey
	}
	row, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if def, ok := Defaults[key]; ok {
				return SettingResponse{Key: key, Value: json.RawMessage(def), IsDefault: true}, nil
			}
			return SettingResponse{}, settingserrors.ErrSettingNotFound
		}
		return SettingResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Upsert(ctx context.Context, actorID, key string, req UpsertSettingRequest) (SettingResponse, error) {
	s.logger.Debug("upsert setting requested", zap.String("key", key), zap.String("actor_id", actorID))

	if !keyPattern.MatchString(key) {
		return SettingResponse{}, settingserrors.ErrInvalidKey
	}
	value, err := normalizeValue(key, req.Value)
	if err != nil {
		s.logger.Warn("upsert setting validation failed", zap.String("key", key), zap.Error(err))
		return SettingResponse{}, err
	}

	row := &SystemSetting{
		ID:          uuid.New(),
		Key:         key,
		Value:       value,
		Description: req.Description,
	}
	if id, err := uuid.Parse(actorID); err == nil {
		row.UpdatedBy = &id
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("upsert setting begin tx failed", zap.Error(err))
		return SettingResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Upsert(ctx, row); err != nil {
		s.logger.Error("upsert setting persist failed", zap.String("key", key), zap.Error(err))
		return SettingResponse{}, err
	}
	if s.outbox != nil {
		change := events.NewChangeEvent(events.TableSystemSettings, events.OpUpdate, key, "", actorID)
		event, err := kafka.NewOutboxEvent(ctx, events.TableSystemSettings, row.ID.String(), change.EventType, events.ChangeFeedTopic, change)
		if err != nil {
			return SettingResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("upsert setting outbox failed", zap.String("key", key), zap.Error(err))
			return SettingResponse{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("upsert setting commit failed", zap.String("key", key), zap.Error(err))
		return SettingResponse{}, err
	}

	s.invalidate(ctx, key)
	s.logger.Info("upsert setting success", zap.String("key", key))
	return mapToResponse(*row), nil
}

func (s *service) invalidate(ctx context.Context, key string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, CacheKeys(key)...).Err(); err != nil {
		s.logger.Warn("settings cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

// raw resolves a value through Redis, then the database, then Defaults.
// Concurrent misses for the same key share one database read.
func (s *service) raw(ctx context.Context, key string) (json.RawMessage, bool) {
	cacheKey := CacheKey(key)
	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			return json.RawMessage(val), true
		}
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("settings cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		row, err := s.repo.FindByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			s.rdb.Set(ctx, cacheKey, string(row.Value), cacheTTL)
		}
		return json.RawMessage(row.Value), nil
	})
	if err == nil {
		return v.(json.RawMessage), true
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("settings lookup failed", zap.String("key", key), zap.Error(err))
	}
	if def, ok := Defaults[key]; ok {
		return json.RawMessage(def), true
	}
	return nil, false
}

func (s *service) String(ctx context.Context, key, fallback string) string {
	raw, ok := s.raw(ctx, key)
	if !ok {
		return fallback
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback
	}
	return v
}

func (s *service) Int(ctx context.Context, key string, fallback int) int {
	raw, ok := s.raw(ctx, key)
	if !ok {
		return fallback
	}
	if n, ok := parseInt(raw); ok {
		return n
	}
	return fallback
}

func parseInt(raw json.RawMessage) (int, bool) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if v, err := strconv.Atoi(str); err == nil {
			return v, true
		}
	}
	return 0, false
}

// normalizeValue checks known keys and compacts the JSON.
func normalizeValue(key string, raw json.RawMessage) (datatypes.JSON, error) {
	if !json.Valid(raw) {
		return nil, settingserrors.ErrInvalidValue
	}
	switch key {
	case KeyLateAfter:
		var v string
		if json.Unmarshal(raw, &v) != nil || !clockPattern.MatchString(v) {
			return nil, settingserrors.ErrInvalidValue
		}
	case KeyAbsenceDeductionDays:
		n, ok := parseInt(raw)
		if !ok || n < 0 {
			return nil, settingserrors.ErrInvalidValue
		}
		raw = json.RawMessage(strconv.Itoa(n))
	case KeySuspensionDefaultDays:
		n, ok := parseInt(raw)
		if !ok || n < 1 {
			return nil, settingserrors.ErrInvalidValue
		}
		raw = json.RawMessage(strconv.Itoa(n))
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, settingserrors.ErrInvalidValue
	}
	return datatypes.JSON(buf.Bytes()), nil
}

func mapToResponse(s SystemSetting) SettingResponse {
	resp := SettingResponse{
		Key:         s.Key,
		Value:       json.RawMessage(s.Value),
		Description: s.Description,
	}
	if s.UpdatedBy != nil {
		v := s.UpdatedBy.String()
		resp.UpdatedBy = &v
	}
	if !s.UpdatedAt.IsZero() {
		v := s.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &v
	}
	return resp
}
