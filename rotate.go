package jmtlogger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// rotatingSink owns the current log file and enforces size-based
// rotation with a bounded backup chain: <path>.1 is the most recent
// backup, <path>.<backupCount> the oldest, anything beyond is deleted.
// Cross-process exclusion comes from the injected NamedLock held around
// the full check-rotate-append sequence; mu additionally guards the
// handle and closed flag against Close racing an in-flight Write from
// an abandoned dispatcher.
type rotatingSink struct {
	path        string
	maxSize     int64
	backupCount int
	lock        NamedLock
	fileLock    *fileLock // set when lock is the default flock, for release on close

	mu     sync.Mutex
	closed bool
	file   *os.File
	size   int64 // byte length of the currently open file

	rotations        atomic.Uint64
	rotationFailures atomic.Uint64

	diag func(format string, args ...any)
}

// newRotatingSink opens (or creates) the log file at path in append
// mode. The parent directory is created when missing. A nil lock
// selects the default flock on "<path>.lock"; if that file cannot be
// created the sink degrades to an in-process lock.
func newRotatingSink(path string, maxSize, backupCount int64, lock NamedLock, diag func(string, ...any)) (*rotatingSink, error) {
	if diag == nil {
		diag = func(string, ...any) {}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmtErrorf("failed to create log directory '%s': %w", dir, err)
		}
	}

	s := &rotatingSink{
		path:        path,
		maxSize:     maxSize,
		backupCount: int(backupCount),
		diag:        diag,
	}

	if lock != nil {
		s.lock = lock
	} else {
		fl := newFileLock(path + ".lock")
		if err := fl.Lock(); err != nil {
			diag("falling back to in-process lock for '%s': %v\n", path, err)
			s.lock = &localLock{}
		} else {
			_ = fl.Unlock()
			s.lock = fl
			s.fileLock = fl
		}
	}

	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

// open opens the current file in append mode and refreshes the size
// counter from it.
func (s *rotatingSink) open() error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmtErrorf("failed to open log file '%s': %w", s.path, err)
	}
	s.file = f
	s.size = 0
	if fi, err := f.Stat(); err == nil {
		s.size = fi.Size()
	}
	return nil
}

// Write appends one formatted record (a trailing newline is added
// here so the size accounting covers the full line). Rotation happens
// before the write when the line would push the file past maxSize, so
// a record is never split across files.
func (s *rotatingSink) Write(line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: '%s'", ErrSinkClosed, s.path)
	}

	locked := true
	if err := s.lock.Lock(); err != nil {
		// Best effort: an unlockable sink still delivers records.
		s.diag("file lock unavailable: %v\n", err)
		locked = false
	}
	if locked {
		defer func() { _ = s.lock.Unlock() }()
	}

	s.reconcile()

	need := int64(len(line)) + 1
	if s.maxSize > 0 && s.size+need > s.maxSize && s.size > 0 {
		if err := s.rotate(); err != nil {
			// Keep appending to the oversized file rather than lose
			// the record.
			s.rotationFailures.Add(1)
			s.diag("rotation failed, continuing on current file: %v\n", err)
		}
	}

	n, err := s.file.Write(append(line, '\n'))
	s.size += int64(n)
	if err != nil {
		return fmtErrorf("failed to write to log file '%s': %w", s.path, err)
	}
	return nil
}

// reconcile revalidates the open handle against the path. Another
// process may have rotated the file since the last write; in that case
// the handle points at a renamed backup and must be reopened. It also
// refreshes the size counter from the filesystem so the rotation
// decision is based on the true byte length, not a per-process guess.
func (s *rotatingSink) reconcile() {
	pathInfo, err := os.Stat(s.path)
	if err != nil {
		// Current file is gone (rotated or deleted externally).
		_ = s.file.Close()
		if err := s.open(); err != nil {
			s.diag("failed to reopen log file: %v\n", err)
		}
		return
	}

	fi, err := s.file.Stat()
	if err == nil && os.SameFile(fi, pathInfo) {
		s.size = pathInfo.Size()
		return
	}

	_ = s.file.Close()
	if err := s.open(); err != nil {
		s.diag("failed to reopen log file after external rotation: %v\n", err)
	}
}

// rotate shifts the backup chain and starts a fresh current file.
// The chain renames are all-or-nothing from the caller's point of
// view: on any failure the current file is reopened in append mode and
// the error is surfaced, so no records are lost.
func (s *rotatingSink) rotate() error {
	if err := s.file.Close(); err != nil {
		s.diag("failed to close log file before rotation: %v\n", err)
	}

	if s.backupCount > 0 {
		if err := s.shiftBackups(); err != nil {
			if reopenErr := s.open(); reopenErr != nil {
				return combineErrors(err, reopenErr)
			}
			return err
		}
	} else {
		// No backups kept: start over in place.
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			if reopenErr := s.open(); reopenErr != nil {
				return combineErrors(err, reopenErr)
			}
			return fmt.Errorf("%w: %v", ErrRotationFailed, err)
		}
	}

	if err := s.open(); err != nil {
		return err
	}
	s.rotations.Add(1)
	return nil
}

// shiftBackups renames file.N-1 to file.N for N = backupCount down to
// 1, deletes the overflow backup, then moves the current file to
// file.1.
func (s *rotatingSink) shiftBackups() error {
	oldest := s.backupPath(s.backupCount)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: removing '%s': %v", ErrRotationFailed, oldest, err)
	}

	for i := s.backupCount - 1; i >= 1; i-- {
		src := s.backupPath(i)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		dst := s.backupPath(i + 1)
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("%w: renaming '%s' to '%s': %v", ErrRotationFailed, src, dst, err)
		}
	}

	first := s.backupPath(1)
	if err := os.Rename(s.path, first); err != nil {
		return fmt.Errorf("%w: renaming '%s' to '%s': %v", ErrRotationFailed, s.path, first, err)
	}
	return nil
}

func (s *rotatingSink) backupPath(n int) string {
	return fmt.Sprintf("%s.%d", s.path, n)
}

// isClosed reports whether the sink's resources have been released.
func (s *rotatingSink) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Sync flushes the current file to disk.
func (s *rotatingSink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.file == nil {
		return nil
	}
	return s.file.Sync()
}

// Close syncs and releases the file and lock resources. Safe to call
// more than once; once closed the sink stays closed and Write refuses
// the record instead of reopening the file.
func (s *rotatingSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true

	var finalErr error
	if s.file != nil {
		if err := s.file.Sync(); err != nil {
			finalErr = combineErrors(finalErr, fmtErrorf("failed to sync log file '%s': %w", s.path, err))
		}
		if err := s.file.Close(); err != nil {
			finalErr = combineErrors(finalErr, fmtErrorf("failed to close log file '%s': %w", s.path, err))
		}
		s.file = nil
	}
	if s.fileLock != nil {
		if err := s.fileLock.close(); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
		s.fileLock = nil
	}
	return finalErr
}
