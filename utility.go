package jmtlogger

import (
	"bytes"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// fmtErrorf wrapper, keeps package errors uniformly prefixed
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "jmtlogger: ") {
		format = "jmtlogger: " + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// callerSource returns "function:line" for the frame skip levels above
// the caller of callerSource.
func callerSource(skip int) string {
	pc, _, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	name := filepath.Base(fn.Name())
	if i := strings.LastIndexByte(name, '.'); i >= 0 && i+1 < len(name) {
		name = name[i+1:]
	}
	return name + ":" + strconv.Itoa(line)
}

var goroutinePrefix = []byte("goroutine ")

// gid extracts the current goroutine's id from the runtime stack
// header. The runtime does not expose the id directly; the first line
// of a single-goroutine stack dump is "goroutine N [state]:".
func gid() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	i := bytes.IndexByte(b, ' ')
	if i < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(b[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// splitArgs separates the leading message string from trailing
// attributes. A non-string first argument is rendered into the message.
func splitArgs(args []any) (string, []any) {
	if len(args) == 0 {
		return "", nil
	}
	if msg, ok := args[0].(string); ok {
		return msg, args[1:]
	}
	return fmt.Sprint(args[0]), args[1:]
}
