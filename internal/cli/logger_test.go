package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitializeLoggerLevels(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LoggingConfig
		override string
		want     zapcore.Level
		wantErr  bool
	}{
		{name: "default", want: zapcore.InfoLevel},
		{name: "config level", cfg: config.LoggingConfig{Level: "warn"}, want: zapcore.WarnLevel},
		{name: "override wins", cfg: config.LoggingConfig{Level: "warn"}, override: "debug", want: zapcore.DebugLevel},
		{name: "warning alias", override: "warning", want: zapcore.WarnLevel},
		{name: "console format", cfg: config.LoggingConfig{Level: "error", Format: "console"}, want: zapcore.ErrorLevel},
		{name: "invalid level", cfg: config.LoggingConfig{Level: "trace"}, wantErr: true},
		{name: "invalid format", cfg: config.LoggingConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := InitializeLogger(tt.cfg, tt.override)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "plancompare.log")

	logger, err := InitializeLogger(config.LoggingConfig{Level: "info", Format: "json", OutputFile: path}, "")
	require.NoError(t, err)

	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
