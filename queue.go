package jmtlogger

import (
	"time"
)

// recordQueue is a bounded multi-producer, single-consumer FIFO of
// Records. The buffered channel preserves arrival order and serves
// blocked senders first-in first-out; closing the channel is the
// drain-and-stop signal for the dispatcher, which keeps receiving
// buffered records until the closed channel is empty.
type recordQueue struct {
	ch chan Record
}

func newRecordQueue(capacity int64) *recordQueue {
	return &recordQueue{ch: make(chan Record, capacity)}
}

// newClosedQueue returns a queue that rejects every push. Installed as
// the active queue while the logger is stopped or closing so producers
// never block on a dead consumer.
func newClosedQueue() *recordQueue {
	q := &recordQueue{ch: make(chan Record)}
	close(q.ch)
	return q
}

// push enqueues a record. With wait <= 0 it never blocks and returns
// ErrQueueFull when the queue is at capacity; otherwise it waits up to
// wait for space before giving up. Pushing onto a closed queue panics
// (send on closed channel); the caller recovers and counts the drop.
func (q *recordQueue) push(rec Record, wait time.Duration) error {
	if wait <= 0 {
		select {
		case q.ch <- rec:
			return nil
		default:
			return ErrQueueFull
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case q.ch <- rec:
		return nil
	case <-timer.C:
		return ErrQueueFull
	}
}

// pending returns the number of buffered records not yet consumed.
func (q *recordQueue) pending() int {
	return len(q.ch)
}

// capacity returns the configured bound of the queue.
func (q *recordQueue) capacity() int {
	return cap(q.ch)
}
