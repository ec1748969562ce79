package bootstrap

import (
	"context"
	"time"

	"go-hrops/internal/shared/contextutil"

	"go.uber.org/zap"
)

// AuditLogger records process-level events such as shutdown.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type zapAuditLogger struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewAuditLogger writes entries to the "audit" child of logger.
func NewAuditLogger(logger *zap.Logger) AuditLogger {
	return &zapAuditLogger{
		logger: logger.Named("audit"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *zapAuditLogger) Log(ctx context.Context, entry AuditLog) {
	fields := []zap.Field{
		zap.Time("at", l.now()),
		zap.String("action", entry.Action),
		zap.Any("meta", entry.Meta),
	}
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}
	l.logger.Info(entry.Message, fields...)
}
