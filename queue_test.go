package jmtlogger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueuePushNonBlocking(t *testing.T) {
	q := newRecordQueue(2)

	require.NoError(t, q.push(Record{Message: "one"}, 0))
	require.NoError(t, q.push(Record{Message: "two"}, 0))

	err := q.push(Record{Message: "three"}, 0)
	assert.ErrorIs(t, err, ErrQueueFull)

	assert.Equal(t, 2, q.pending())
	assert.Equal(t, 2, q.capacity())
}

func TestQueueFIFO(t *testing.T) {
	q := newRecordQueue(10)

	for _, msg := range []string{"a", "b", "c"} {
		require.NoError(t, q.push(Record{Message: msg}, 0))
	}

	assert.Equal(t, "a", (<-q.ch).Message)
	assert.Equal(t, "b", (<-q.ch).Message)
	assert.Equal(t, "c", (<-q.ch).Message)
}

func TestQueuePushBlockTimeout(t *testing.T) {
	q := newRecordQueue(1)
	require.NoError(t, q.push(Record{Message: "fill"}, 0))

	start := time.Now()
	err := q.push(Record{Message: "blocked"}, 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestQueuePushBlockSucceedsWhenDrained(t *testing.T) {
	q := newRecordQueue(1)
	require.NoError(t, q.push(Record{Message: "fill"}, 0))

	go func() {
		time.Sleep(20 * time.Millisecond)
		<-q.ch
	}()

	err := q.push(Record{Message: "waited"}, time.Second)
	assert.NoError(t, err)
}

func TestQueueBlockedSendersServedInOrder(t *testing.T) {
	q := newRecordQueue(1)
	require.NoError(t, q.push(Record{Message: "fill"}, 0))

	// A blocked sender gets in as soon as the consumer frees a slot,
	// before a later non-blocking push can steal the capacity.
	done := make(chan error, 1)
	go func() {
		done <- q.push(Record{Message: "patient"}, time.Second)
	}()
	time.Sleep(20 * time.Millisecond)

	<-q.ch
	require.NoError(t, <-done)
	assert.Equal(t, "patient", (<-q.ch).Message)
}

func TestClosedQueueRejectsPush(t *testing.T) {
	q := newClosedQueue()

	assert.Panics(t, func() {
		_ = q.push(Record{Message: "rejected"}, 0)
	})
}
