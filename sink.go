package jmtlogger

import (
	"io"
)

// ANSI color escapes, one fixed color per severity.
const (
	ansiReset   = "\033[0m"
	ansiCyan    = "\033[36m" // DEBUG
	ansiGreen   = "\033[32m" // INFO
	ansiYellow  = "\033[33m" // WARNING
	ansiRed     = "\033[31m" // ERROR
	ansiMagenta = "\033[35m" // CRITICAL
)

func levelColor(level int64) string {
	switch {
	case level >= LevelCritical:
		return ansiMagenta
	case level >= LevelError:
		return ansiRed
	case level >= LevelWarning:
		return ansiYellow
	case level >= LevelInfo:
		return ansiGreen
	default:
		return ansiCyan
	}
}

// consoleSink writes formatted lines to the standard output stream.
// Each record goes out in a single Write call with its trailing
// newline, so console ordering matches dispatch order and lines from
// a concurrently logging file sink test run never interleave mid-line.
type consoleSink struct {
	w     io.Writer
	color bool
	buf   []byte
}

func newConsoleSink(w io.Writer, color bool) *consoleSink {
	return &consoleSink{
		w:     w,
		color: color,
		buf:   make([]byte, 0, 512),
	}
}

// Write renders one line, optionally wrapped in the color escape for
// the record's level.
func (c *consoleSink) Write(level int64, line []byte) error {
	c.buf = c.buf[:0]
	if c.color {
		c.buf = append(c.buf, levelColor(level)...)
	}
	c.buf = append(c.buf, line...)
	if c.color {
		c.buf = append(c.buf, ansiReset...)
	}
	c.buf = append(c.buf, '\n')

	_, err := c.w.Write(c.buf)
	if err != nil {
		return fmtErrorf("failed to write to console: %w", err)
	}
	return nil
}
