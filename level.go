package jmtlogger

import (
	"strconv"
	"strings"
)

// Severity levels, ordered. A record is delivered when its level is at
// or above the logger's threshold.
const (
	LevelDebug    int64 = 10
	LevelInfo     int64 = 20
	LevelWarning  int64 = 30
	LevelError    int64 = 40
	LevelCritical int64 = 50
)

// LevelName returns the canonical upper-case name for a level value.
func LevelName(level int64) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "LEVEL(" + strconv.FormatInt(level, 10) + ")"
	}
}

// ParseLevel converts a case-insensitive level name to its numeric
// constant. "warn" and "fatal" are accepted as aliases.
func ParseLevel(levelStr string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use debug, info, warning, error, critical)", levelStr)
	}
}

// levelAccepts reports whether a record at recordLevel passes the
// given threshold. Applied at emit time and again, authoritatively, by
// the dispatcher with the threshold snapshot taken at dequeue.
func levelAccepts(recordLevel, threshold int64) bool {
	return recordLevel >= threshold
}
