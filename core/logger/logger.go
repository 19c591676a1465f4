// Package logger is a standardized event logging framework for the shell.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/josephlewis42/seashell/core/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates the application logger described by the configuration. Logs are
// written as newline delimited JSON objects. A configuration without a log
// file produces a no-op logger.
func New(cfg *config.Configuration) (*zap.Logger, error) {
	logPath := cfg.LogPath()
	if logPath == "" {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return nil, err
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(level)
	loggerConfig.OutputPaths = []string{logPath}
	loggerConfig.ErrorOutputPaths = []string{logPath}
	loggerConfig.DisableStacktrace = true

	return loggerConfig.Build()
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*zap.Logger
	SessionID string
}

// NewSession creates a logger with attached session ID.
func NewSession(l *zap.Logger) *SessionLogger {
	id := uuid.NewString()
	return &SessionLogger{
		Logger:    l.With(zap.String("session", id)),
		SessionID: id,
	}
}

// Sessionless wraps a logger without a session, used by child processes that
// don't know which session started them.
func Sessionless(l *zap.Logger) *SessionLogger {
	return &SessionLogger{Logger: l}
}
