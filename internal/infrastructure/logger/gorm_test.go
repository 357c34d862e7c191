package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func observedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), logs
}

func sqlOf(stmt string, rows int64) func() (string, int64) {
	return func() (string, int64) { return stmt, rows }
}

func TestGormLogger_Trace(t *testing.T) {
	const stmt = `UPDATE "stock_items" SET quantity_on_hand = quantity_on_hand + -3`

	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		elapsed time.Duration
		err     error
		want    zapcore.Level
		msg     string
		logged  bool
	}{
		{"query at info level", gormlogger.Info, time.Millisecond, nil, zapcore.DebugLevel, "SQL Query", true},
		{"query below info level", gormlogger.Warn, time.Millisecond, nil, 0, "", false},
		{"slow query", gormlogger.Warn, 300 * time.Millisecond, nil, zapcore.WarnLevel, "SLOW SQL >= 200ms", true},
		{"failed statement", gormlogger.Error, time.Millisecond, errors.New("deadlock detected"), zapcore.ErrorLevel, "SQL Error", true},
		{"duplicate document number", gormlogger.Error, time.Millisecond, gorm.ErrDuplicatedKey, zapcore.WarnLevel, "SQL Conflict", true},
		{"record not found", gormlogger.Info, time.Millisecond, gormlogger.ErrRecordNotFound, 0, "", false},
		{"silent", gormlogger.Silent, time.Second, errors.New("boom"), 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl, logs := observedGormLogger(tt.level)

			gl.Trace(context.Background(), time.Now().Add(-tt.elapsed), sqlOf(stmt, 1), tt.err)

			if !tt.logged {
				assert.Zero(t, logs.Len())
				return
			}
			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.want, entry.Level)
			assert.Equal(t, tt.msg, entry.Message)
			assert.Equal(t, stmt, entry.ContextMap()["sql"])
			assert.Equal(t, "gorm", entry.LoggerName)
		})
	}
}

func TestGormLogger_TraceTagsRequestAndActor(t *testing.T) {
	gl, logs := observedGormLogger(gormlogger.Info)
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-42")
	ctx, _ = WithActor(ctx, zap.NewNop(), "3f1c5c8e-5b7a-4d9e-9a55-3c2a6a0f7b11", "Frontdesk")

	gl.Trace(ctx, time.Now(), sqlOf(`INSERT INTO "invoices"`, 1), nil)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "3f1c5c8e-5b7a-4d9e-9a55-3c2a6a0f7b11", fields["actor_id"])
}

func TestGormLogger_Options(t *testing.T) {
	gl, logs := observedGormLogger(gormlogger.Warn,
		WithSlowThreshold(time.Second),
		WithIgnoreRecordNotFoundError(false),
	)

	gl.Trace(context.Background(), time.Now().Add(-300*time.Millisecond), sqlOf("SELECT 1", 1), nil)
	assert.Zero(t, logs.Len(), "below the raised threshold")

	gl.Trace(context.Background(), time.Now(), sqlOf("SELECT 1", 0), gormlogger.ErrRecordNotFound)
	assert.Equal(t, 1, logs.Len())
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	gl, logs := observedGormLogger(gormlogger.Silent)

	verbose := gl.LogMode(gormlogger.Info)
	verbose.Info(context.Background(), "migrating %s", "stock_items")
	gl.Info(context.Background(), "ignored")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "migrating stock_items", logs.All()[0].Message)
	assert.Equal(t, gormlogger.Silent, gl.logLevel)
}

func TestMapGormLogLevel(t *testing.T) {
	for level, want := range map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"info":    gormlogger.Info,
		"debug":   gormlogger.Info,
		"DEBUG":   gormlogger.Info,
		"verbose": gormlogger.Warn,
	} {
		assert.Equal(t, want, MapGormLogLevel(level), level)
	}
}

var _ gormlogger.Interface = (*GormLogger)(nil)
