package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	lockFileSuffix = ".lock"
)

// StoreLock serializes writers of the account store across processes.
type StoreLock struct {
	lock *flock.Flock
	path string
}

// NewStoreLock creates a lock next to the given database path.
func NewStoreLock(dbPath string) (*StoreLock, error) {
	absPath, err := GetAbsDBPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute db path: %w", err)
	}
	lockPath := absPath + lockFileSuffix
	return &StoreLock{
		lock: flock.New(lockPath),
		path: lockPath,
	}, nil
}

// Path returns the lock file path.
func (l *StoreLock) Path() string {
	return l.path
}

// Lock acquires the store lock, waiting if another process holds it.
func (l *StoreLock) Lock() error {
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", l.path, err)
	}

	if !locked {
		Log.Warn("Another degreeaudit process is writing to the account store, waiting for it to finish...")
		if err := l.lock.Lock(); err != nil {
			return fmt.Errorf("failed to acquire lock on %s after waiting: %w", l.path, err)
		}
	}
	return nil
}

// TryLock acquires the lock only if it is free.
func (l *StoreLock) TryLock() (bool, error) {
	return l.lock.TryLock()
}

// Unlock releases the store lock.
func (l *StoreLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		// A missing lock file means we never held it.
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to release lock on %s: %w", l.path, err)
	}
	return nil
}

// GetAbsDBPath resolves the database path. An empty path means the default
// location under the user's config directory, which is created if needed.
func GetAbsDBPath(dbPath string) (string, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir := filepath.Join(home, ".config", "degreeaudit")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		return filepath.Join(dir, "degreeaudit.sqlite"), nil
	}
	return filepath.Abs(dbPath)
}
