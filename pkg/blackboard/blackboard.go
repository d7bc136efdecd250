// Package blackboard implements the key/value store shared by every node of a tree.
//
// A Blackboard is deliberately not synchronized: the tree is ticked by a single
// goroutine, and a writer outside the tick loop must bring its own locking.
package blackboard

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ErrKeyNotFound is returned when a key has never been written.
var ErrKeyNotFound = errors.New("blackboard key not found")

// Blackboard maps string keys to arbitrary values.
type Blackboard struct {
	entries map[string]any
}

// New creates an empty blackboard.
func New() *Blackboard {
	return &Blackboard{entries: make(map[string]any)}
}

// Seed copies every entry of values into the blackboard.
func (b *Blackboard) Seed(values map[string]any) {
	for k, v := range values {
		b.entries[k] = v
	}
}

// Set stores value under key, replacing any previous value.
func (b *Blackboard) Set(key string, value any) {
	b.entries[key] = value
}

// Get returns the raw value stored under key.
func (b *Blackboard) Get(key string) (any, bool) {
	v, ok := b.entries[key]
	return v, ok
}

// Has reports whether key has been written.
func (b *Blackboard) Has(key string) bool {
	_, ok := b.entries[key]
	return ok
}

// Delete removes key. Deleting a missing key is a no-op.
func (b *Blackboard) Delete(key string) {
	delete(b.entries, key)
}

// Keys returns every key in sorted order.
func (b *Blackboard) Keys() []string {
	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a shallow copy of the entries.
func (b *Blackboard) Snapshot() map[string]any {
	out := make(map[string]any, len(b.entries))
	for k, v := range b.entries {
		out[k] = v
	}
	return out
}

// Get reads key and converts it to T.
func Get[T any](b *Blackboard, key string) (T, error) {
	var zero T
	raw, ok := b.Get(key)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	out, err := Convert[T](raw)
	if err != nil {
		return zero, fmt.Errorf("blackboard key %s: %w", key, err)
	}
	return out, nil
}

// Convert turns value into T, accepting weakly typed input such as "42" for an int
// or "250ms" for a time.Duration.
func Convert[T any](value any) (T, error) {
	var out T
	if v, ok := value.(T); ok {
		return v, nil
	}
	if value == nil {
		return out, fmt.Errorf("cannot convert nil to %s", reflect.TypeOf(&out).Elem())
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(value); err != nil {
		return out, fmt.Errorf("convert %T to %s: %w", value, reflect.TypeOf(&out).Elem(), err)
	}
	return out, nil
}

// ParseReference reports whether s is a blackboard reference of the form "{key}"
// and returns the key.
func ParseReference(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || s[0] != '{' || s[len(s)-1] != '}' {
		return "", false
	}
	key := strings.TrimSpace(s[1 : len(s)-1])
	if key == "" {
		return "", false
	}
	return key, true
}
