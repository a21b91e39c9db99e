package jmtlogger

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
)

// Queue-full policies. Drop discards the record immediately and counts
// it; block waits up to push_timeout_ms for capacity before dropping.
const (
	QueuePolicyDrop  = "drop"
	QueuePolicyBlock = "block"
)

// Config holds all logger configuration values
type Config struct {
	// Identity and filtering
	Name  string `toml:"name"`
	Level int64  `toml:"level"`

	// Sink selection
	EnableConsole bool   `toml:"enable_console"`
	EnableFile    bool   `toml:"enable_file"`
	ConsoleTarget string `toml:"console_target"` // "stdout" or "stderr"
	EnableColor   bool   `toml:"enable_color"`

	// File sink
	File        string `toml:"file"`          // explicit path; synthesized from Directory and Name when empty
	Directory   string `toml:"directory"`     // used when File is empty
	MaxFileSize int64  `toml:"max_file_size"` // bytes per file before rotation, 0 disables rotation
	BackupCount int64  `toml:"backup_count"`  // rotated files kept as <path>.1 .. <path>.N

	// Formatting
	Format          string `toml:"format"` // "text" or "json" (file sink)
	ConsoleFormat   string `toml:"console_format"`
	FileFormat      string `toml:"file_format"`
	TimestampFormat string `toml:"timestamp_format"`
	SourceInfo      bool   `toml:"source_info"` // capture function:line per record

	// Queue and timers
	BufferSize        int64  `toml:"buffer_size"`
	QueuePolicy       string `toml:"queue_policy"` // "drop" or "block"
	PushTimeoutMs     int64  `toml:"push_timeout_ms"`
	FlushIntervalMs   int64  `toml:"flush_interval_ms"`
	ShutdownTimeoutMs int64  `toml:"shutdown_timeout_ms"`

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"`
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Name:  "jmt_logger",
	Level: LevelInfo,

	EnableConsole: true,
	EnableFile:    false,
	ConsoleTarget: "stdout",
	EnableColor:   true,

	File:        "",
	Directory:   "",
	MaxFileSize: 10 * 1024 * 1024,
	BackupCount: 5,

	Format:          "text",
	ConsoleFormat:   "{time} - {name} - {level} - {pid} - {gid} - {message}",
	FileFormat:      "{time} - {name} - {level} - {pid} - {gid} - {source} - {message}",
	TimestampFormat: "2006-01-02 15:04:05",
	SourceInfo:      true,

	BufferSize:        10000,
	QueuePolicy:       QueuePolicyDrop,
	PushTimeoutMs:     1000,
	FlushIntervalMs:   100,
	ShutdownTimeoutMs: 5000,

	InternalErrorsToStderr: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// filePath resolves the log file location: the explicit path when set,
// otherwise "<directory>/<name>.log".
func (c *Config) filePath() string {
	if c.File != "" {
		return c.File
	}
	filename := c.Name + ".log"
	if c.Directory != "" {
		return filepath.Join(c.Directory, filename)
	}
	return filename
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmtErrorf("logger name cannot be empty")
	}

	if c.Format != "text" && c.Format != "json" {
		return fmtErrorf("invalid format: '%s' (use text or json)", c.Format)
	}

	if c.ConsoleTarget != "stdout" && c.ConsoleTarget != "stderr" {
		return fmtErrorf("invalid console_target: '%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	if c.QueuePolicy != QueuePolicyDrop && c.QueuePolicy != QueuePolicyBlock {
		return fmtErrorf("invalid queue_policy: '%s' (use drop or block)", c.QueuePolicy)
	}

	if strings.TrimSpace(c.TimestampFormat) == "" {
		return fmtErrorf("timestamp_format cannot be empty")
	}

	if c.BufferSize <= 0 {
		return fmtErrorf("buffer_size must be positive: %d", c.BufferSize)
	}

	if c.MaxFileSize < 0 {
		return fmtErrorf("max_file_size cannot be negative: %d", c.MaxFileSize)
	}

	if c.BackupCount < 0 {
		return fmtErrorf("backup_count cannot be negative: %d", c.BackupCount)
	}

	if c.PushTimeoutMs < 0 {
		return fmtErrorf("push_timeout_ms cannot be negative: %d", c.PushTimeoutMs)
	}

	if c.FlushIntervalMs <= 0 || c.ShutdownTimeoutMs <= 0 {
		return fmtErrorf("interval settings must be positive")
	}

	if !c.EnableConsole && !c.EnableFile {
		return fmtErrorf("at least one of enable_console or enable_file must be set")
	}

	return nil
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	// Register the struct to enable proper unmarshaling
	if err := loader.RegisterStruct("logger.", *cfg); err != nil {
		return nil, fmt.Errorf("jmtlogger: failed to register config struct: %w", err)
	}

	// Load from file (handles file not found gracefully)
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("jmtlogger: failed to load config from %s: %w", path, err)
	}

	// Extract values into our Config struct
	if err := extractConfig(loader, "logger.", cfg); err != nil {
		return nil, fmt.Errorf("jmtlogger: failed to extract config values: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("jmtlogger: failed to apply overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from the loader into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		key := prefix + tomlTag

		val, found := loader.Get(key)
		if !found {
			continue // Use default value
		}

		if err := setFieldValue(fieldValue, val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}
