package app

import (
	"database/sql"

	"go-hrops/internal/attendance"
	"go-hrops/internal/audit"
	"go-hrops/internal/auth"
	"go-hrops/internal/biodata"
	"go-hrops/internal/inventory"
	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/profile"
	"go-hrops/internal/project"
	"go-hrops/internal/rbac"
	"go-hrops/internal/salary"
	"go-hrops/internal/settings"
	"go-hrops/internal/shared/config"
	"go-hrops/internal/shared/connection"
	"go-hrops/internal/shared/counter"
	"go-hrops/internal/storage"
	"go-hrops/internal/suspension"
	"go-hrops/internal/task"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type infra struct {
	gormDB *gorm.DB
	sqlDB  *sql.DB
	rdb    *redis.Client
}

func (i *infra) Close() {
	if i.rdb != nil {
		_ = i.rdb.Close()
	}
	if i.sqlDB != nil {
		_ = i.sqlDB.Close()
	}
}

func openInfra(cfg config.Config) (*infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DBMaxRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &infra{gormDB: gormDB, sqlDB: sqlDB, rdb: rdb}, nil
}

func newObjectStore(cfg config.Config) storage.ObjectStore {
	if !cfg.OSSEnabled() {
		zap.L().Warn("OSS not configured, uploads are disabled")
		return storage.NewUnavailableStore()
	}
	store, err := storage.NewOSSStore(storage.OSSConfig{
		Endpoint:        cfg.OSSEndpoint,
		AccessKeyID:     cfg.OSSAccessKeyID,
		AccessKeySecret: cfg.OSSAccessKeySecret,
		PublicBaseURL:   cfg.OSSPublicBaseURL,
		BucketPrefix:    cfg.OSSBucketPrefix,
	})
	if err != nil {
		zap.L().Error("OSS client init failed, uploads are disabled", zap.Error(err))
		return storage.NewUnavailableStore()
	}
	return store
}

// Migrate creates or updates every table the services use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&profile.Profile{},
		&profile.Document{},
		&auth.Account{},
		&salary.SalaryInfo{},
		&attendance.Attendance{},
		&suspension.Suspension{},
		&project.Project{},
		&task.Task{},
		&task.Message{},
		&task.Attachment{},
		&inventory.Item{},
		&task.InventoryUsage{},
		&settings.SystemSetting{},
		&audit.EmployeeAudit{},
		&biodata.Submission{},
		&counter.Counter{},
		&kafka.OutboxRecord{},
		&rbac.RoleGrant{},
	)
}
