// Package notify implements synchronous observer lists. Handlers are invoked
// in registration order on the caller's goroutine; a handler that returns an
// error or panics is isolated so that later handlers still run and nothing
// reaches the code that triggered the notification.
package notify

import (
	"slices"
	"sync"

	"github.com/amp-labs/amp-controls/utils"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Handler receives one event. A returned error is absorbed by the list.
type Handler[E any] func(event E) error

// Subscription identifies one registration. The zero value is inert.
type Subscription struct {
	id     uuid.UUID
	cancel func(id uuid.UUID) bool
}

// ID returns the registration token.
func (s Subscription) ID() uuid.UUID {
	return s.id
}

// Unsubscribe removes the registration. It returns false if it was already
// removed, or if the subscription is the zero value.
func (s Subscription) Unsubscribe() bool {
	if s.cancel == nil {
		return false
	}

	return s.cancel(s.id)
}

type registration[E any] struct {
	id      uuid.UUID
	handler Handler[E]
}

// Observers is an ordered list of handlers for one kind of event.
// It is safe for concurrent use. Use New to create one.
type Observers[E any] struct {
	name      string
	mutex     sync.RWMutex
	handlers  []registration[E]
	failed    *atomic.Int64
}

// New creates an empty observer list. The name labels its metrics.
func New[E any](name string) *Observers[E] {
	return &Observers[E]{
		name:      name,
		failed:    atomic.NewInt64(0),
	}
}

// Name returns the metrics label of the list.
func (o *Observers[E]) Name() string {
	return o.name
}

// Subscribe appends handler to the list. Registering the same function twice
// creates two registrations, each invoked once per event. A nil handler is
// ignored and yields an inert Subscription.
func (o *Observers[E]) Subscribe(handler Handler[E]) Subscription {
	if handler == nil {
		return Subscription{}
	}

	reg := registration[E]{id: uuid.New(), handler: handler}

	o.mutex.Lock()
	o.handlers = append(o.handlers, reg)
	o.mutex.Unlock()

	return Subscription{id: reg.id, cancel: o.Unsubscribe}
}

// Unsubscribe removes the registration with the given token.
func (o *Observers[E]) Unsubscribe(id uuid.UUID) bool {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	idx := slices.IndexFunc(o.handlers, func(reg registration[E]) bool {
		return reg.id == id
	})
	if idx < 0 {
		return false
	}

	o.handlers = slices.Delete(o.handlers, idx, idx+1)

	return true
}

// Len returns the number of registered handlers.
func (o *Observers[E]) Len() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return len(o.handlers)
}

// Failed returns how many handler invocations returned an error or panicked
// over the lifetime of the list.
func (o *Observers[E]) Failed() int64 {
	return o.failed.Load()
}

// Notify invokes every handler registered at the time of the call, in
// registration order, and returns how many of them failed. The list is
// snapshotted first, so handlers may subscribe or unsubscribe while running;
// such changes apply from the next Notify.
func (o *Observers[E]) Notify(event E) int {
	o.mutex.RLock()
	snapshot := slices.Clone(o.handlers)
	o.mutex.RUnlock()

	failures := 0

	for _, reg := range snapshot {
		if err := invoke(reg.handler, event); err != nil {
			failures++

			o.failed.Inc()
			observerFailures.WithLabelValues(o.name, failureCause(err)).Inc()

			continue
		}

		deliveries.WithLabelValues(o.name).Inc()
	}

	return failures
}

// invoke runs one handler, converting a panic into an error.
func invoke[E any](handler Handler[E], event E) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = utils.GetPanicRecoveryError(r, nil)
		}
	}()

	return handler(event)
}
