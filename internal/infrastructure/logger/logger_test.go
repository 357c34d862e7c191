package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/vetclinic/backend/internal/infrastructure/config"
)

func TestConfigFrom(t *testing.T) {
	tests := []struct {
		name       string
		log        config.LogConfig
		env        string
		wantFormat string
		wantLevel  string
	}{
		{"development defaults", config.LogConfig{}, "development", "console", "info"},
		{"production defaults to json", config.LogConfig{}, "production", "json", "info"},
		{"explicit values win", config.LogConfig{Level: "debug", Format: "console"}, "production", "console", "debug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ConfigFrom(tt.log, tt.env)
			assert.Equal(t, tt.wantFormat, cfg.Format)
			assert.Equal(t, tt.wantLevel, cfg.Level)
			assert.Equal(t, "stdout", cfg.Output)
			assert.NotEmpty(t, cfg.TimeFormat)
		})
	}
}

func TestNew(t *testing.T) {
	for _, cfg := range []*Config{DefaultConfig(), ProductionConfig(), {Level: "debug", Format: "json"}} {
		l, err := New(cfg)
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}

func TestNewForService(t *testing.T) {
	l, err := NewForService(
		config.AppConfig{Name: "vetclinic", Env: "development"},
		config.LogConfig{Level: "warn"},
	)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinic.log")
	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	l.Info("walk-in invoice paid")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"walk-in invoice paid"`)
}

func TestCreateWriterFallsBackToStdout(t *testing.T) {
	assert.NotNil(t, createWriter(filepath.Join(t.TempDir(), "missing-dir", "x.log")))
	assert.NotNil(t, createWriter("STDERR"))
}
