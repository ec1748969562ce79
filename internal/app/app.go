package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-hrops/internal/auth"
	autherrors "go-hrops/internal/auth/errors"
	"go-hrops/internal/middleware"
	"go-hrops/internal/shared/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the stores, wires every module onto router and
// returns a cleanup func for the shared connections.
func BuildApp(router *gin.Engine, cfg config.Config) (func(), error) {
	in, err := openInfra(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.DBAutoMigrate {
		if err := Migrate(in.gormDB); err != nil {
			in.Close()
			return nil, err
		}
		zap.L().Info("database migrated")
	}

	repos := newRepositories(in)
	svc, err := newServices(in, repos, newObjectStore(cfg))
	if err != nil {
		in.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.rbac.Reload(ctx); err != nil {
		zap.L().Warn("rbac overrides not loaded, using built-in policy", zap.Error(err))
	}
	bootstrapAdmin(ctx, svc.auth, cfg)

	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(zap.L()),
		gin.Recovery(),
	)
	router.GET("/health", healthHandler(in))

	registerRoutes(router, in, svc, cfg)
	return in.Close, nil
}

func bootstrapAdmin(ctx context.Context, svc auth.Service, cfg config.Config) {
	if cfg.BootstrapAdminEmail == "" || cfg.BootstrapAdminPassword == "" {
		return
	}
	_, err := svc.BootstrapAdmin(ctx, auth.BootstrapAdminRequest{
		FullName: cfg.BootstrapAdminName,
		Email:    cfg.BootstrapAdminEmail,
		Password: cfg.BootstrapAdminPassword,
	})
	switch {
	case err == nil:
		zap.L().Info("bootstrap admin created", zap.String("email", cfg.BootstrapAdminEmail))
	case errors.Is(err, autherrors.ErrAdminExists):
	default:
		zap.L().Error("bootstrap admin failed", zap.Error(err))
	}
}

func healthHandler(in *infra) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"database": "ok", "redis": "ok"}
		code := http.StatusOK
		if err := in.sqlDB.PingContext(ctx); err != nil {
			status["database"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if err := in.rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}
