// Package filelock provides a ports.Locker backed by lock files, for drivers
// running on the same host.
package filelock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/arbor/pkg/ports"
	"github.com/gofrs/flock"
)

// Locker implements ports.Locker with one exclusive lock file per key.
// The lock is released by the OS if the process dies, so ttl is ignored.
type Locker struct {
	dir   string
	retry time.Duration
}

// New creates a Locker keeping its lock files in dir.
func New(dir string) *Locker {
	return &Locker{dir: dir, retry: 100 * time.Millisecond}
}

// Path returns the lock file used for key.
func (l *Locker) Path(key string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' {
			return '_'
		}
		return r
	}, key)
	return filepath.Join(l.dir, name+".lock")
}

// Lock blocks until the lock file for key is held or ctx ends.
func (l *Locker) Lock(ctx context.Context, key string, _ time.Duration) (ports.UnlockFunc, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	lock := flock.New(l.Path(key))
	locked, err := lock.TryLockContext(ctx, l.retry)
	if err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("lock acquisition failed: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s (lock file %s)", ports.ErrLockHeld, key, lock.Path())
	}

	return func(context.Context) error {
		return lock.Unlock()
	}, nil
}
