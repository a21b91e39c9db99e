package jmtlogger

import (
	"time"
)

// Record is one immutable log event. It is created by a producer
// goroutine, owned by the queue until the dispatcher consumes it, and
// never mutated after construction.
type Record struct {
	Time    time.Time
	Level   int64
	Name    string
	PID     int
	GID     uint64 // goroutine id of the emitting caller
	Source  string // "function:line" of the emitting call site
	Message string
	Attrs   []any
	Err     error
	Stack   []byte

	unreportedDrops uint64 // carried by drop-report records for recovery
}

// sinkSet is the group of output destinations a dispatcher fans out
// to. Built under initMu, then owned by the dispatcher goroutine.
type sinkSet struct {
	file       *rotatingSink
	fileFmt    *formatter
	console    *consoleSink
	consoleFmt *formatter
	fallback   *consoleSink // stderr delivery for records the file sink rejects
}
