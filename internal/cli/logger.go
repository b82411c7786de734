package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/config"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitializeLogger builds the zap logger for a command. A non-empty
// levelOverride (the --log-level flag) wins over the configured level.
func InitializeLogger(loggingConfig config.LoggingConfig, levelOverride string) (*zap.Logger, error) {
	resolved, err := loggingConfig.Resolve(levelOverride)
	if err != nil {
		return nil, err
	}

	level, err := zapcore.ParseLevel(resolved.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", resolved.Level)
	}

	zapConfig := zap.NewProductionConfig()
	if resolved.Format == constants.LogFormatConsole {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	if resolved.OutputFile != "" {
		if err := ensureLogFile(resolved.OutputFile); err != nil {
			return nil, err
		}
		zapConfig.OutputPaths = []string{resolved.OutputFile}
		zapConfig.ErrorOutputPaths = []string{resolved.OutputFile}
	}

	return zapConfig.Build()
}

// ensureLogFile creates the log file and its directory so zap can append.
func ensureLogFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file.Close()
}
