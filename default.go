package jmtlogger

import (
	"sync"
	"time"
)

var (
	defaultLogger   *Logger
	defaultLoggerMu sync.Mutex
)

// std returns the shared package-level logger, creating and starting
// it with defaults on first use.
func std() *Logger {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()

	if defaultLogger == nil {
		defaultLogger = NewLogger()
	}
	return defaultLogger
}

// Init configures and starts the package-level logger. A nil cfg
// applies the defaults.
func Init(cfg *Config) error {
	logger := std()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := logger.ApplyConfig(cfg); err != nil {
		return err
	}
	return logger.Start()
}

// InitFromFile configures and starts the package-level logger from a
// TOML file.
func InitFromFile(path string) error {
	cfg, err := NewConfigFromFile(path)
	if err != nil {
		return err
	}
	return Init(cfg)
}

// Debug logs at DEBUG level on the package-level logger.
func Debug(args ...any) { std().log(LevelDebug, nil, nil, args) }

// Info logs at INFO level on the package-level logger.
func Info(args ...any) { std().log(LevelInfo, nil, nil, args) }

// Warning logs at WARNING level on the package-level logger.
func Warning(args ...any) { std().log(LevelWarning, nil, nil, args) }

// Warn is an alias for Warning.
func Warn(args ...any) { std().log(LevelWarning, nil, nil, args) }

// Error logs at ERROR level on the package-level logger.
func Error(args ...any) { std().log(LevelError, nil, nil, args) }

// Critical logs at CRITICAL level on the package-level logger.
func Critical(args ...any) { std().log(LevelCritical, nil, nil, args) }

// Fatal is an alias for Critical. It does not terminate the process.
func Fatal(args ...any) { std().log(LevelCritical, nil, nil, args) }

// Exception logs err with a stack trace on the package-level logger.
func Exception(msg string, err error, args ...any) { std().Exception(msg, err, args...) }

// SetLevel changes the package-level logger's threshold.
func SetLevel(level int64) { std().SetLevel(level) }

// GetLevel returns the package-level logger's threshold.
func GetLevel() int64 { return std().GetLevel() }

// Flush syncs the package-level logger's sinks.
func Flush(timeout ...time.Duration) error { return std().Flush(timeout...) }

// Close shuts the package-level logger down. A later Init creates a
// fresh instance.
func Close(timeout ...time.Duration) error {
	defaultLoggerMu.Lock()
	logger := defaultLogger
	defaultLogger = nil
	defaultLoggerMu.Unlock()

	if logger == nil {
		return nil
	}
	return logger.Close(timeout...)
}
