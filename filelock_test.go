package jmtlogger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFileLockMutualExclusion verifies two locks on the same path
// exclude each other. flock is per file description, so two instances
// in one process behave like two processes.
func TestFileLockMutualExclusion(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "shared.lock")

	first := newFileLock(lockPath)
	second := newFileLock(lockPath)

	require.NoError(t, first.Lock())

	acquired := make(chan struct{})
	go func() {
		if err := second.Lock(); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first was held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, first.Unlock())

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second lock not acquired after first was released")
	}

	require.NoError(t, second.Unlock())
	require.NoError(t, first.close())
	require.NoError(t, second.close())
}

func TestFileLockReacquire(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "re.lock")
	fl := newFileLock(lockPath)

	for i := 0; i < 3; i++ {
		require.NoError(t, fl.Lock())
		require.NoError(t, fl.Unlock())
	}
	require.NoError(t, fl.close())
}

func TestFileLockBadPath(t *testing.T) {
	fl := newFileLock(filepath.Join(t.TempDir(), "missing", "dir", "x.lock"))
	err := fl.Lock()
	assert.Error(t, err)
}

func TestLocalLock(t *testing.T) {
	ll := &localLock{}
	require.NoError(t, ll.Lock())
	require.NoError(t, ll.Unlock())
	require.NoError(t, ll.Lock())
	require.NoError(t, ll.Unlock())
}
