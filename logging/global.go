// Package logging configures slog for the bot and exposes package-level helpers.
package logging

import (
	"log/slog"
	"os"
	"sync"
)

type LoggingService struct {
	Logger *slog.Logger
	file   *RotatingLogger
}

var (
	DefaultLoggingService *LoggingService
	fallbackOnce          sync.Once
	fallbackLogger        *slog.Logger
)

// InitLogger initializes the global logger instance and makes it the slog default
func InitLogger(opts Options) {
	logger, file := SetupLogger(opts)
	DefaultLoggingService = &LoggingService{Logger: logger, file: file}
	slog.SetDefault(logger)
}

// Close flushes and closes the log file, if any
func Close() error {
	if DefaultLoggingService == nil || DefaultLoggingService.file == nil {
		return nil
	}
	return DefaultLoggingService.file.Close()
}

// Logger returns the configured logger, or a stderr logger before InitLogger ran
func Logger() *slog.Logger {
	return current()
}

// current returns the configured logger, or a stderr logger before InitLogger ran
func current() *slog.Logger {
	if DefaultLoggingService != nil && DefaultLoggingService.Logger != nil {
		return DefaultLoggingService.Logger
	}
	fallbackOnce.Do(func() {
		fallbackLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	})
	return fallbackLogger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}
