package jmtlogger

// Stats is a point-in-time snapshot of the engine's counters.
type Stats struct {
	Processed        uint64 // records delivered to the sinks
	Dropped          uint64 // records rejected by a full queue
	Discarded        uint64 // records abandoned by a timed-out Close
	Rotations        uint64 // completed file rotations
	RotationFailures uint64 // rotations that could not complete
	SinkFailures     uint64 // individual sink write failures

	QueueLength   int // records currently buffered
	QueueCapacity int // configured queue bound
}

// Stats returns the current counters. Values are read individually and
// may be mutually inconsistent under load; each one is accurate on its
// own. Never blocks, even while a Close or reconfigure is draining.
func (l *Logger) Stats() Stats {
	s := Stats{
		Processed:    l.state.TotalProcessed.Load(),
		Dropped:      l.state.TotalDropped.Load(),
		Discarded:    l.state.DiscardedOnClose.Load(),
		SinkFailures: l.state.SinkFailures.Load(),
	}

	if queue, ok := l.state.ActiveQueue.Load().(*recordQueue); ok {
		s.QueueLength = queue.pending()
		s.QueueCapacity = queue.capacity()
	}

	if sinks := l.currentSinks(); sinks != nil && sinks.file != nil {
		s.Rotations = sinks.file.rotations.Load()
		s.RotationFailures = sinks.file.rotationFailures.Load()
	}

	return s
}
