package jmtlogger

import (
	"errors"
	"fmt"
	"time"
)

// ErrQueueFull is returned by the queue when a record cannot be
// enqueued within the configured policy (immediately for the drop
// policy, after the push timeout for the block policy). Producer-facing
// calls never surface it directly; the record is counted as dropped.
var ErrQueueFull = errors.New("jmtlogger: queue full")

// ErrRotationFailed wraps a failure in the backup rename chain. The
// sink keeps appending to the oversized current file when this occurs.
var ErrRotationFailed = errors.New("jmtlogger: rotation failed")

// ErrSinkClosed is returned by a sink whose resources were already
// released. A closed sink stays closed; it never reopens its file.
var ErrSinkClosed = errors.New("jmtlogger: sink closed")

// ShutdownError reports that Close exceeded its drain timeout and had
// to discard undelivered records.
type ShutdownError struct {
	Discarded uint64
	Timeout   time.Duration
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("jmtlogger: closed with %d records discarded after %v", e.Discarded, e.Timeout)
}
