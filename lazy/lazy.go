// Package lazy holds values that are computed on first use.
package lazy

import (
	"sync"
	"sync/atomic"
)

// Of is a value computed at most once, on the first call to Get. If the
// create function panics the panic propagates and the next Get tries again.
type Of[T any] struct {
	mutex       sync.Mutex
	create      func() T
	value       T
	initialized atomic.Bool
}

// New returns a lazy value that will call f on first access.
func New[T any](f func() T) *Of[T] {
	return &Of[T]{create: f}
}

// Get returns the value, computing it if necessary.
func (o *Of[T]) Get() T { //nolint:ireturn
	if o.initialized.Load() {
		return o.value
	}

	o.mutex.Lock()
	defer o.mutex.Unlock()

	if !o.initialized.Load() {
		if o.create != nil {
			o.value = o.create()
		}

		o.create = nil
		o.initialized.Store(true)
	}

	return o.value
}

// Initialized reports whether Get has completed successfully.
func (o *Of[T]) Initialized() bool {
	return o.initialized.Load()
}
