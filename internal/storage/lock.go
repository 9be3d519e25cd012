package storage

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"

	"github.com/MagnusUndhjem/healthTalk-clean/internal/ports"
)

// ErrLocked signals that another run already holds the state lock.
var ErrLocked = errors.New("another run holds the state lock")

// FileLock guards the state-file pair with an advisory file lock so at most
// one run executes against them at a time.
type FileLock struct {
	fl *flock.Flock
}

var _ ports.RunLock = (*FileLock)(nil)

// NewFileLock creates a lock keyed by the given path.
func NewFileLock(path string) *FileLock {
	return &FileLock{fl: flock.New(path)}
}

// Acquire takes the lock without blocking; ErrLocked if it is already held.
func (l *FileLock) Acquire() error {
	locked, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	return nil
}

// Release drops the lock.
func (l *FileLock) Release() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("release run lock: %w", err)
	}
	return nil
}
