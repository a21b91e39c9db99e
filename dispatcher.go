package jmtlogger

import (
	"errors"
	"strconv"
	"time"
)

// dispatch is the single-consumer loop. It owns the sinks for its
// lifetime: no other goroutine touches them while it runs. The loop
// exits when the queue channel is closed and fully drained, syncing
// the sinks on the way out.
func (l *Logger) dispatch(ch <-chan Record, sinks *sinkSet, done chan struct{}) {
	defer close(done)
	defer l.state.DispatcherExited.Store(true)

	flushInterval := time.Duration(l.getConfig().FlushIntervalMs) * time.Millisecond
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case rec, ok := <-ch:
			if !ok {
				l.syncSinks(sinks)
				return
			}
			l.dispatchRecord(&rec, sinks)

		case <-ticker.C:
			l.syncSinks(sinks)

		case confirm := <-l.state.flushRequestChan:
			l.syncSinks(sinks)
			close(confirm)
		}
	}
}

// dispatchRecord applies the level filter again at dequeue time, so a
// threshold raised after a record was queued still suppresses it, then
// writes the record to the file sink and the console sink in that
// order. A failing sink is counted and skipped, never fatal.
func (l *Logger) dispatchRecord(rec *Record, sinks *sinkSet) {
	// A timed-out Close already counted the remaining records as
	// discarded and released the sinks; drain them without writing.
	if sinks.file != nil && sinks.file.isClosed() {
		return
	}

	if rec.unreportedDrops > 0 {
		l.reportDrops(rec, sinks)
	}

	if !levelAccepts(rec.Level, l.state.Level.Load()) {
		return
	}

	l.writeRecord(rec, sinks)
	l.state.TotalProcessed.Add(1)
}

func (l *Logger) writeRecord(rec *Record, sinks *sinkSet) {
	if sinks.file != nil {
		line := sinks.fileFmt.render(rec)
		if err := sinks.file.Write(line); err != nil && !errors.Is(err, ErrSinkClosed) {
			l.state.SinkFailures.Add(1)
			l.internalLog("file sink write failed: %v\n", err)
			if sinks.console == nil && sinks.fallback != nil {
				// Best effort: the record still reaches the console.
				_ = sinks.fallback.Write(rec.Level, line)
			}
		}
	}
	if sinks.console != nil {
		if err := sinks.console.Write(rec.Level, sinks.consoleFmt.render(rec)); err != nil {
			l.state.SinkFailures.Add(1)
			l.internalLog("console sink write failed: %v\n", err)
		}
	}
}

// reportDrops emits a synthetic WARNING record ahead of the carrier so
// the output shows where the gap happened.
func (l *Logger) reportDrops(rec *Record, sinks *sinkSet) {
	notice := Record{
		Time:    rec.Time,
		Level:   LevelWarning,
		Name:    rec.Name,
		PID:     rec.PID,
		GID:     rec.GID,
		Message: strconv.FormatUint(rec.unreportedDrops, 10) + " records dropped due to full queue",
	}
	if levelAccepts(LevelWarning, l.state.Level.Load()) {
		l.writeRecord(&notice, sinks)
	}
}

// syncSinks flushes buffered file data to disk.
func (l *Logger) syncSinks(sinks *sinkSet) {
	if sinks.file != nil {
		if err := sinks.file.Sync(); err != nil {
			l.internalLog("file sync failed: %v\n", err)
		}
	}
}
