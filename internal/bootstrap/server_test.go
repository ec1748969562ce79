package bootstrap

import (
	"context"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"go-hrops/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingAuditLogger struct {
	entries []AuditLog
}

func (r *recordingAuditLogger) Log(_ context.Context, entry AuditLog) {
	r.entries = append(r.entries, entry)
}

func TestServe_ShutsDownOnSignal(t *testing.T) {
	audit := &recordingAuditLogger{}
	quit := make(chan os.Signal, 1)
	quit <- syscall.SIGTERM

	err := serve(http.NotFoundHandler(), ServerConfig{Port: "0", ShutdownTimeout: time.Second}, audit, quit)

	require.NoError(t, err)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "SERVER_SHUTDOWN", audit.entries[0].Action)
	assert.Equal(t, "terminated", audit.entries[0].Meta["signal"])
}

func TestAuditLogger_IncludesRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewAuditLogger(zap.New(core))

	ctx := contextutil.WithRequestID(context.Background(), "req-1")
	l.Log(ctx, AuditLog{Action: "SERVER_SHUTDOWN", Message: "bye"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "bye", entry.Message)
	assert.Equal(t, "audit", entry.LoggerName)
	assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
	assert.Equal(t, "SERVER_SHUTDOWN", entry.ContextMap()["action"])
}
