package registry

import (
	"errors"
	"fmt"
	"sync"
)

// ErrResourceNotFound is returned by Resource when the key was never provided.
var ErrResourceNotFound = errors.New("resource not found")

// Resources is a bag of shared objects (serial ports, motor drivers, clients)
// handed to builders.
type Resources struct {
	mu    sync.RWMutex
	items map[string]any
}

func NewResources() *Resources {
	return &Resources{items: make(map[string]any)}
}

// Set stores v under key, replacing any previous value.
func (r *Resources) Set(key string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = v
}

// Get returns the value stored under key.
func (r *Resources) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[key]
	return v, ok
}

// Resource returns the resource stored under key as a T.
func Resource[T any](bctx BuildContext, key string) (T, error) {
	var zero T
	v, ok := bctx.Resources.Get(key)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrResourceNotFound, key)
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("resource %s is a %T, not a %T", key, v, zero)
	}
	return typed, nil
}
