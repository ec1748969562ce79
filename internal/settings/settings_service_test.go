package settings_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-hrops/internal/settings"
	settingserrors "go-hrops/internal/settings/errors"
	settingsMock "go-hrops/internal/settings/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   settings.Service
	repo      *settingsMock.MockRepository
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	dbRedis, redisMock := redismock.NewClientMock()
	repo := settingsMock.NewMockRepository(ctrl)

	svc := settings.NewService(db, repo, dbRedis, nil)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		redismock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestSettingsService_Int(t *testing.T) {
	ctx := context.Background()
	cacheKey := settings.CacheKey(settings.KeySuspensionDefaultDays)

	t.Run("cache hit skips the repository", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(cacheKey).SetVal("14")
		deps.repo.EXPECT().FindByKey(gomock.Any(), gomock.Any()).Times(0)

		assert.Equal(t, 14, deps.service.Int(ctx, settings.KeySuspensionDefaultDays, 7))
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("cache miss reads the row and fills the cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(cacheKey).RedisNil()
		deps.repo.EXPECT().
			FindByKey(ctx, settings.KeySuspensionDefaultDays).
			Return(&settings.SystemSetting{Key: settings.KeySuspensionDefaultDays, Value: datatypes.JSON("10")}, nil).
			Times(1)
		deps.redismock.ExpectSet(cacheKey, "10", 30*time.Minute).SetVal("OK")

		assert.Equal(t, 10, deps.service.Int(ctx, settings.KeySuspensionDefaultDays, 7))
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("missing row falls back to the built-in default", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(cacheKey).RedisNil()
		deps.repo.EXPECT().
			FindByKey(ctx, settings.KeySuspensionDefaultDays).
			Return(nil, gorm.ErrRecordNotFound)

		assert.Equal(t, 7, deps.service.Int(ctx, settings.KeySuspensionDefaultDays, 99))
	})

	t.Run("unknown key uses the caller fallback", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(settings.CacheKey("feature.unknown")).RedisNil()
		deps.repo.EXPECT().
			FindByKey(ctx, "feature.unknown").
			Return(nil, gorm.ErrRecordNotFound)

		assert.Equal(t, 3, deps.service.Int(ctx, "feature.unknown", 3))
	})

	t.Run("non numeric value uses the caller fallback", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(cacheKey).SetVal(`{"days":3}`)

		assert.Equal(t, 5, deps.service.Int(ctx, settings.KeySuspensionDefaultDays, 5))
	})
}

func TestSettingsService_String(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	deps.redismock.ExpectGet(settings.CacheKey(settings.KeyLateAfter)).SetVal(`"08:45"`)

	assert.Equal(t, "08:45", deps.service.String(context.Background(), settings.KeyLateAfter, "09:00"))
}

func TestSettingsService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("stored row", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindByKey(ctx, settings.KeyLateAfter).
			Return(&settings.SystemSetting{Key: settings.KeyLateAfter, Value: datatypes.JSON(`"10:00"`)}, nil)

		resp, err := deps.service.Get(ctx, settings.KeyLateAfter)
		require.NoError(t, err)
		assert.False(t, resp.IsDefault)
		assert.JSONEq(t, `"10:00"`, string(resp.Value))
	})

	t.Run("default when not stored", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().
			FindByKey(ctx, settings.KeyAbsenceDeductionDays).
			Return(nil, gorm.ErrRecordNotFound)

		resp, err := deps.service.Get(ctx, settings.KeyAbsenceDeductionDays)
		require.NoError(t, err)
		assert.True(t, resp.IsDefault)
		assert.JSONEq(t, `1`, string(resp.Value))
	})

	t.Run("unknown and not stored", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.EXPECT().FindByKey(ctx, "nope").Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Get(ctx, "nope")
		assert.ErrorIs(t, err, settingserrors.ErrSettingNotFound)
	})

	t.Run("malformed key", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Get(ctx, "Bad Key")
		assert.ErrorIs(t, err, settingserrors.ErrInvalidKey)
	})
}

func TestSettingsService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("merges stored rows with defaults", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet("settings:all").RedisNil()
		deps.repo.EXPECT().FindAll(ctx).Return([]settings.SystemSetting{
			{Key: settings.KeyLateAfter, Value: datatypes.JSON(`"10:00"`)},
		}, nil)
		deps.redismock.Regexp().ExpectSet("settings:all", `.*`, 30*time.Minute).SetVal("OK")

		resp, err := deps.service.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, resp, len(settings.Defaults))

		byKey := map[string]settings.SettingResponse{}
		for _, r := range resp {
			byKey[r.Key] = r
		}
		assert.False(t, byKey[settings.KeyLateAfter].IsDefault)
		assert.True(t, byKey[settings.KeySuspensionDefaultDays].IsDefault)
	})

	t.Run("cache hit", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cached, _ := json.Marshal([]settings.SettingResponse{{Key: "a.b", Value: json.RawMessage(`true`)}})
		deps.redismock.ExpectGet("settings:all").SetVal(string(cached))
		deps.repo.EXPECT().FindAll(gomock.Any()).Times(0)

		resp, err := deps.service.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("repository error", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet("settings:all").RedisNil()
		deps.repo.EXPECT().FindAll(ctx).Return(nil, errors.New("db down"))

		_, err := deps.service.GetAll(ctx)
		assert.Error(t, err)
	})
}

func TestSettingsService_Upsert(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.NewString()

	t.Run("writes the row and clears the cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Upsert(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, s *settings.SystemSetting) error {
				assert.Equal(t, settings.KeySuspensionDefaultDays, s.Key)
				assert.Equal(t, "21", string(s.Value))
				require.NotNil(t, s.UpdatedBy)
				assert.Equal(t, actorID, s.UpdatedBy.String())
				return nil
			})
		deps.redismock.ExpectDel(settings.CacheKeys(settings.KeySuspensionDefaultDays)...).SetVal(2)

		resp, err := deps.service.Upsert(ctx, actorID, settings.KeySuspensionDefaultDays, settings.UpsertSettingRequest{
			Value: json.RawMessage(`"21"`),
		})
		require.NoError(t, err)
		assert.JSONEq(t, `21`, string(resp.Value))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("repository error rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Upsert(ctx, gomock.Any()).Return(errors.New("write failed"))

		_, err := deps.service.Upsert(ctx, actorID, settings.KeyLateAfter, settings.UpsertSettingRequest{
			Value: json.RawMessage(`"09:30"`),
		})
		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	tests := []struct {
		name  string
		key   string
		value string
		want  error
	}{
		{"late after not a clock", settings.KeyLateAfter, `"9am"`, settingserrors.ErrInvalidValue},
		{"late after out of range", settings.KeyLateAfter, `"24:10"`, settingserrors.ErrInvalidValue},
		{"negative absence days", settings.KeyAbsenceDeductionDays, `-1`, settingserrors.ErrInvalidValue},
		{"zero default duration", settings.KeySuspensionDefaultDays, `0`, settingserrors.ErrInvalidValue},
		{"invalid json", "custom.flag", `{`, settingserrors.ErrInvalidValue},
		{"bad key", "Has Space", `1`, settingserrors.ErrInvalidKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := setupServiceTest(t)
			defer deps.db.Close()

			_, err := deps.service.Upsert(ctx, actorID, tt.key, settings.UpsertSettingRequest{Value: json.RawMessage(tt.value)})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
