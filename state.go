package jmtlogger

import (
	"sync"
	"sync/atomic"
)

// Lifecycle states for a logger instance.
const (
	stateOpen int32 = iota
	stateClosing
	stateClosed
)

// State encapsulates the runtime state of the logger
type State struct {
	IsInitialized    atomic.Bool
	Started          atomic.Bool
	CloseCalled      atomic.Bool
	DispatcherExited atomic.Bool // Tracks if the dispatcher goroutine is running or has exited

	Lifecycle atomic.Int32 // stateOpen / stateClosing / stateClosed

	// Level is the active severity threshold, read by every producer
	// on each emit and by the dispatcher on each dequeue.
	Level atomic.Int64

	ActiveQueue atomic.Value // stores *recordQueue, swapped on stop/close

	flushRequestChan chan chan struct{} // Channel to request a flush
	flushMutex       sync.Mutex         // Protect concurrent Flush calls

	// Counters
	DroppedRecords   atomic.Uint64 // dropped and not yet reported in-band
	TotalDropped     atomic.Uint64 // dropped over the instance lifetime
	TotalProcessed   atomic.Uint64 // records delivered to at least one sink
	SinkFailures     atomic.Uint64 // individual sink write failures
	DiscardedOnClose atomic.Uint64 // undelivered records abandoned by a timed-out Close
}
