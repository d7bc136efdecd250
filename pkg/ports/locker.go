package ports

import (
	"context"
	"errors"
	"time"
)

// ErrLockHeld is returned when the lock is owned by someone else and the
// context ends before it is released.
var ErrLockHeld = errors.New("lock is held by another driver")

// UnlockFunc releases a lock.
type UnlockFunc func(ctx context.Context) error

// Locker provides mutual exclusion between drivers, possibly across processes.
type Locker interface {
	// Lock blocks until the lock for key is acquired or ctx ends. ttl bounds how
	// long a crashed owner can keep the lock (implementation specific).
	// The returned UnlockFunc MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
