package jmtlogger

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to the logger's current configuration.
// Each override should be in the format "key=value".
// The configuration is cloned before modification to ensure thread safety.
//
// Example:
//
//	logger := jmtlogger.NewLogger()
//	err := logger.ApplyOverride(
//	    "directory=/var/log/app",
//	    "level=debug",
//	    "format=json",
//	)
func (l *Logger) ApplyOverride(overrides ...string) error {
	cfg := l.getConfig().Clone()

	var errs []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return combineConfigErrors(errs)
	}

	return l.ApplyConfig(cfg)
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString("jmtlogger: multiple configuration errors:")
	for i, err := range errs {
		errMsg := err.Error()
		// Strip the package prefix from individual errors to avoid duplication
		errMsg = strings.TrimPrefix(errMsg, "jmtlogger: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
// This is the core field mapping logic for string overrides.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	case "name":
		cfg.Name = value
	case "level":
		// Accept both numeric and named values
		if numVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			cfg.Level = numVal
		} else {
			levelVal, err := ParseLevel(value)
			if err != nil {
				return fmtErrorf("invalid level value '%s': %w", value, err)
			}
			cfg.Level = levelVal
		}

	case "enable_console":
		return setBoolField(&cfg.EnableConsole, key, value)
	case "enable_file":
		return setBoolField(&cfg.EnableFile, key, value)
	case "console_target":
		cfg.ConsoleTarget = value
	case "enable_color":
		return setBoolField(&cfg.EnableColor, key, value)

	case "file":
		cfg.File = value
	case "directory":
		cfg.Directory = value
	case "max_file_size":
		return setInt64Field(&cfg.MaxFileSize, key, value)
	case "backup_count":
		return setInt64Field(&cfg.BackupCount, key, value)

	case "format":
		cfg.Format = value
	case "console_format":
		cfg.ConsoleFormat = value
	case "file_format":
		cfg.FileFormat = value
	case "timestamp_format":
		cfg.TimestampFormat = value
	case "source_info":
		return setBoolField(&cfg.SourceInfo, key, value)

	case "buffer_size":
		return setInt64Field(&cfg.BufferSize, key, value)
	case "queue_policy":
		cfg.QueuePolicy = value
	case "push_timeout_ms":
		return setInt64Field(&cfg.PushTimeoutMs, key, value)
	case "flush_interval_ms":
		return setInt64Field(&cfg.FlushIntervalMs, key, value)
	case "shutdown_timeout_ms":
		return setInt64Field(&cfg.ShutdownTimeoutMs, key, value)

	case "internal_errors_to_stderr":
		return setBoolField(&cfg.InternalErrorsToStderr, key, value)

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

func setBoolField(dst *bool, key, value string) error {
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
	}
	*dst = boolVal
	return nil
}

func setInt64Field(dst *int64, key, value string) error {
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
	}
	*dst = intVal
	return nil
}
