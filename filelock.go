package jmtlogger

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// NamedLock is a mutual-exclusion primitive valid across process
// boundaries. The rotating sink holds it around the full
// "measure size, rotate if needed, append" sequence so that two
// processes logging to the same path never interleave a rotation with
// another's write.
type NamedLock interface {
	Lock() error
	Unlock() error
}

// fileLock implements NamedLock with an advisory flock(2) on a
// companion lock file next to the log file. flock is scoped to the
// open file description, so two logger instances in the same process
// exclude each other as well, each through its own descriptor.
type fileLock struct {
	path string
	mu   sync.Mutex
	f    *os.File
}

// newFileLock prepares a lock bound to path. The lock file is created
// lazily on first Lock.
func newFileLock(path string) *fileLock {
	return &fileLock{path: path}
}

func (fl *fileLock) Lock() error {
	fl.mu.Lock()
	if fl.f == nil {
		f, err := os.OpenFile(fl.path, os.O_CREATE|os.O_RDWR, 0644)
		if err != nil {
			fl.mu.Unlock()
			return fmtErrorf("failed to open lock file '%s': %w", fl.path, err)
		}
		fl.f = f
	}
	if err := unix.Flock(int(fl.f.Fd()), unix.LOCK_EX); err != nil {
		fl.mu.Unlock()
		return fmtErrorf("failed to acquire lock on '%s': %w", fl.path, err)
	}
	return nil
}

func (fl *fileLock) Unlock() error {
	var err error
	if fl.f != nil {
		err = unix.Flock(int(fl.f.Fd()), unix.LOCK_UN)
	}
	fl.mu.Unlock()
	return err
}

// close releases the lock file descriptor.
func (fl *fileLock) close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.f == nil {
		return nil
	}
	err := fl.f.Close()
	fl.f = nil
	return err
}

// localLock is an in-process fallback used when the flock file cannot
// be created (read-only or exotic filesystems). It preserves the write
// protocol within the process but offers no cross-process exclusion.
type localLock struct {
	mu sync.Mutex
}

func (ll *localLock) Lock() error {
	ll.mu.Lock()
	return nil
}

func (ll *localLock) Unlock() error {
	ll.mu.Unlock()
	return nil
}
