package jmtlogger

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// Logger is an asynchronous logging engine instance. Producers on any
// goroutine enqueue records; a single dispatcher goroutine consumes
// them and fans out to the configured sinks. All exported methods are
// safe for concurrent use.
type Logger struct {
	currentConfig atomic.Value // stores *Config
	state         State

	// initMu serializes ApplyConfig, Start, and Close against each
	// other. The hot emit path never takes it.
	initMu sync.Mutex

	pid            int
	sinks          atomic.Value // stores *sinkSet, written under initMu
	dispatcherDone chan struct{}
}

// NewLogger creates a logger that must be configured with ApplyConfig
// (or started with defaults via Start) before records flow.
func NewLogger() *Logger {
	l := &Logger{
		pid: os.Getpid(),
	}
	l.state.flushRequestChan = make(chan chan struct{}, 1)
	l.state.ActiveQueue.Store(newClosedQueue())
	l.state.Level.Store(defaultConfig.Level)
	l.state.DispatcherExited.Store(true)
	return l
}

// getConfig returns the active configuration, falling back to defaults
// before the first ApplyConfig.
func (l *Logger) getConfig() *Config {
	if cfg, ok := l.currentConfig.Load().(*Config); ok {
		return cfg
	}
	return DefaultConfig()
}

// GetConfig returns a copy of the active configuration.
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// currentSinks returns the installed sink set, nil before the first
// ApplyConfig. Lock-free; mutation happens only under initMu.
func (l *Logger) currentSinks() *sinkSet {
	sinks, _ := l.sinks.Load().(*sinkSet)
	return sinks
}

// ApplyConfig validates cfg and installs it. Safe to call on a running
// logger: the dispatcher is drained and restarted with the new sinks
// and queue. On validation or sink failure the previous configuration
// stays active.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("config cannot be nil")
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	if l.state.Lifecycle.Load() != stateOpen {
		return fmtErrorf("logger is closed")
	}

	cfg = cfg.Clone()
	sinks, err := l.buildSinks(cfg)
	if err != nil {
		return err
	}

	wasStarted := l.state.Started.Load()
	if wasStarted {
		shutdownWait := time.Duration(cfg.ShutdownTimeoutMs) * time.Millisecond
		if stopped, discarded := l.stopDispatcher(shutdownWait); !stopped {
			l.state.DiscardedOnClose.Add(discarded)
			l.internalLog("reconfigure abandoned %d queued records\n", discarded)
		}
	}
	oldSinks := l.currentSinks()

	queue := newRecordQueue(cfg.BufferSize)
	l.state.ActiveQueue.Store(queue)
	l.currentConfig.Store(cfg)
	l.state.Level.Store(cfg.Level)
	l.sinks.Store(sinks)
	l.state.IsInitialized.Store(true)

	if oldSinks != nil {
		closeSinkSet(oldSinks)
	}
	if wasStarted {
		l.state.Started.Store(true)
		l.startDispatcher(queue, sinks)
	}
	return nil
}

// ApplyConfigFile loads a TOML file and applies the result.
func (l *Logger) ApplyConfigFile(path string) error {
	cfg, err := NewConfigFromFile(path)
	if err != nil {
		return err
	}
	return l.ApplyConfig(cfg)
}

// buildSinks constructs the output side for cfg.
func (l *Logger) buildSinks(cfg *Config) (*sinkSet, error) {
	sinks := &sinkSet{}

	if cfg.EnableFile {
		fs, err := newRotatingSink(cfg.filePath(), cfg.MaxFileSize, cfg.BackupCount, nil, l.internalLog)
		if err != nil {
			return nil, err
		}
		sinks.file = fs
		if cfg.Format == "json" {
			sinks.fileFmt = newJSONFormatter(cfg.TimestampFormat)
		} else {
			sinks.fileFmt = newTextFormatter(cfg.FileFormat, cfg.TimestampFormat)
		}
	}

	if cfg.EnableConsole {
		target := os.Stdout
		if cfg.ConsoleTarget == "stderr" {
			target = os.Stderr
		}
		sinks.console = newConsoleSink(target, cfg.EnableColor)
		sinks.consoleFmt = newTextFormatter(cfg.ConsoleFormat, cfg.TimestampFormat)
	} else if sinks.file != nil {
		// No console configured: records the file sink rejects still
		// get delivered somewhere visible.
		sinks.fallback = newConsoleSink(os.Stderr, false)
	}

	return sinks, nil
}

func closeSinkSet(sinks *sinkSet) error {
	if sinks.file != nil {
		return sinks.file.Close()
	}
	return nil
}

// Start launches the dispatcher goroutine. Applies the default
// configuration if none has been applied yet. Calling Start on a
// started logger is a no-op.
func (l *Logger) Start() error {
	if !l.state.IsInitialized.Load() {
		if err := l.ApplyConfig(DefaultConfig()); err != nil {
			return err
		}
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	if l.state.Lifecycle.Load() != stateOpen {
		return fmtErrorf("logger is closed")
	}
	if !l.state.Started.CompareAndSwap(false, true) {
		return nil
	}

	queue, _ := l.state.ActiveQueue.Load().(*recordQueue)
	l.startDispatcher(queue, l.currentSinks())
	return nil
}

// startDispatcher must be called with initMu held and a live queue.
func (l *Logger) startDispatcher(queue *recordQueue, sinks *sinkSet) {
	done := make(chan struct{})
	l.dispatcherDone = done
	l.state.DispatcherExited.Store(false)
	go l.dispatch(queue.ch, sinks, done)
}

// stopDispatcher swaps in a closed queue so producers stop enqueuing,
// closes the old queue to let the dispatcher drain it, and waits up to
// wait for the dispatcher to exit. Must be called with initMu held.
// Returns false and the abandoned record count on timeout.
func (l *Logger) stopDispatcher(wait time.Duration) (bool, uint64) {
	oldQueue, _ := l.state.ActiveQueue.Load().(*recordQueue)
	l.state.ActiveQueue.Store(newClosedQueue())
	l.state.Started.Store(false)

	if oldQueue != nil {
		close(oldQueue.ch)
	}
	if l.dispatcherDone == nil {
		return true, 0
	}

	select {
	case <-l.dispatcherDone:
		return true, 0
	case <-time.After(wait):
		var pending uint64
		if oldQueue != nil {
			pending = uint64(oldQueue.pending())
		}
		return false, pending
	}
}

// Close drains the queue and shuts the logger down. It is idempotent;
// only the first call does work. An optional timeout overrides the
// configured shutdown_timeout_ms. When the drain does not finish in
// time, Close abandons the remaining records and returns a
// *ShutdownError carrying the discarded count. The sinks are released
// either way; an abandoned dispatcher drains what is left without
// writing, since a closed sink refuses records instead of reopening.
func (l *Logger) Close(timeout ...time.Duration) error {
	if !l.state.CloseCalled.CompareAndSwap(false, true) {
		return nil
	}
	l.state.Lifecycle.Store(stateClosing)

	l.initMu.Lock()
	defer l.initMu.Unlock()

	wait := time.Duration(l.getConfig().ShutdownTimeoutMs) * time.Millisecond
	if len(timeout) > 0 {
		wait = timeout[0]
	}

	var closeErr error
	if l.dispatcherDone != nil && !l.state.DispatcherExited.Load() {
		if stopped, discarded := l.stopDispatcher(wait); !stopped {
			l.state.DiscardedOnClose.Add(discarded)
			closeErr = &ShutdownError{Discarded: discarded, Timeout: wait}
		}
	} else {
		// Never started: anything still queued will not be delivered.
		if queue, ok := l.state.ActiveQueue.Load().(*recordQueue); ok {
			if pending := uint64(queue.pending()); pending > 0 {
				l.state.DiscardedOnClose.Add(pending)
			}
		}
		l.state.ActiveQueue.Store(newClosedQueue())
		l.state.Started.Store(false)
	}

	if sinks := l.currentSinks(); sinks != nil {
		closeErr = combineErrors(closeErr, closeSinkSet(sinks))
	}

	l.state.Lifecycle.Store(stateClosed)
	return closeErr
}

// Flush asks the dispatcher to sync the sinks and waits for the
// confirmation. Returns nil when the logger is not running.
func (l *Logger) Flush(timeout ...time.Duration) error {
	if !l.state.Started.Load() || l.state.DispatcherExited.Load() {
		return nil
	}

	wait := time.Duration(l.getConfig().ShutdownTimeoutMs) * time.Millisecond
	if len(timeout) > 0 {
		wait = timeout[0]
	}

	l.state.flushMutex.Lock()
	defer l.state.flushMutex.Unlock()

	confirm := make(chan struct{})
	select {
	case l.state.flushRequestChan <- confirm:
	case <-time.After(wait):
		return fmtErrorf("flush request timed out after %v", wait)
	}

	select {
	case <-confirm:
		return nil
	case <-time.After(wait):
		return fmtErrorf("flush confirmation timed out after %v", wait)
	}
}

// SetLevel changes the severity threshold. Takes effect immediately
// for new emits and for records still waiting in the queue.
func (l *Logger) SetLevel(level int64) {
	l.state.Level.Store(level)
}

// GetLevel returns the active severity threshold.
func (l *Logger) GetLevel() int64 {
	return l.state.Level.Load()
}

// IsEnabledFor reports whether a record at level would pass the
// current threshold.
func (l *Logger) IsEnabledFor(level int64) bool {
	return levelAccepts(level, l.state.Level.Load())
}

// Debug logs at DEBUG level. The first string argument becomes the
// message; remaining arguments are attached as attributes.
func (l *Logger) Debug(args ...any) { l.log(LevelDebug, nil, nil, args) }

// Info logs at INFO level.
func (l *Logger) Info(args ...any) { l.log(LevelInfo, nil, nil, args) }

// Warning logs at WARNING level.
func (l *Logger) Warning(args ...any) { l.log(LevelWarning, nil, nil, args) }

// Warn is an alias for Warning.
func (l *Logger) Warn(args ...any) { l.log(LevelWarning, nil, nil, args) }

// Error logs at ERROR level.
func (l *Logger) Error(args ...any) { l.log(LevelError, nil, nil, args) }

// Critical logs at CRITICAL level.
func (l *Logger) Critical(args ...any) { l.log(LevelCritical, nil, nil, args) }

// Fatal is an alias for Critical. It does not terminate the process.
func (l *Logger) Fatal(args ...any) { l.log(LevelCritical, nil, nil, args) }

// LogAt logs at an arbitrary level.
func (l *Logger) LogAt(level int64, args ...any) { l.log(level, nil, nil, args) }

// Exception logs err at ERROR level together with the current
// goroutine's stack trace.
func (l *Logger) Exception(msg string, err error, args ...any) {
	if msg != "" {
		args = append([]any{msg}, args...)
	}
	l.log(LevelError, err, debug.Stack(), args)
}

// log is the single producer-side entry point. It filters by level,
// builds the immutable record, and enqueues it according to the
// configured backpressure policy. It never blocks beyond
// push_timeout_ms and never fails the caller.
func (l *Logger) log(level int64, err error, stack []byte, args []any) {
	if !l.state.IsInitialized.Load() || l.state.Lifecycle.Load() != stateOpen {
		return
	}
	if !levelAccepts(level, l.state.Level.Load()) {
		return
	}

	cfg := l.getConfig()
	msg, attrs := splitArgs(args)

	rec := Record{
		Time:    time.Now(),
		Level:   level,
		Name:    cfg.Name,
		PID:     l.pid,
		GID:     gid(),
		Message: msg,
		Attrs:   attrs,
		Err:     err,
		Stack:   stack,
	}
	if cfg.SourceInfo {
		rec.Source = callerSource(3)
	}

	// Piggyback any drops that have not been reported yet; restored on
	// failure so the count survives until a record gets through.
	if pendingDrops := l.state.DroppedRecords.Swap(0); pendingDrops > 0 {
		rec.unreportedDrops = pendingDrops
	}

	var wait time.Duration
	if cfg.QueuePolicy == QueuePolicyBlock {
		wait = time.Duration(cfg.PushTimeoutMs) * time.Millisecond
	}

	if pushErr := l.enqueue(rec, wait); pushErr != nil {
		l.state.DroppedRecords.Add(1 + rec.unreportedDrops)
		l.state.TotalDropped.Add(1)
		l.internalLog("record dropped: %v\n", pushErr)
	}
}

// enqueue pushes onto whatever queue is currently active. A push onto
// a queue closed by a concurrent stop panics; the recover converts it
// into a drop.
func (l *Logger) enqueue(rec Record, wait time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrQueueFull
		}
	}()

	queue, ok := l.state.ActiveQueue.Load().(*recordQueue)
	if !ok {
		return ErrQueueFull
	}
	return queue.push(rec, wait)
}

// internalLog reports an engine-internal problem to stderr when
// enabled. Never recurses into the logging pipeline.
func (l *Logger) internalLog(format string, args ...any) {
	if l.getConfig().InternalErrorsToStderr {
		fmt.Fprintf(os.Stderr, "jmtlogger: "+format, args...)
	}
}
