package controls

import "github.com/amp-labs/amp-controls/notify"

// EventKind distinguishes membership notifications.
type EventKind int

const (
	// ItemAdded is delivered after a successful Add.
	ItemAdded EventKind = iota + 1
	// ItemRemoved is delivered after a successful Remove or RemoveAt.
	ItemRemoved
)

func (k EventKind) String() string {
	switch k {
	case ItemAdded:
		return "item_added"
	case ItemRemoved:
		return "item_removed"
	default:
		return "unknown"
	}
}

// Event describes one membership change. It carries the affected item, not
// its key or position, since those may already have changed by the time an
// observer runs.
type Event[C any] struct {
	Source *Collection[C]
	Kind   EventKind
	Item   C
}

// Observer handles an Event. Errors and panics from an observer are absorbed:
// they never reach the caller that mutated the collection and never stop
// delivery to observers registered after it.
type Observer[C any] func(event Event[C]) error

// OnItemAdded registers observer for item-added events. Observers run
// synchronously on the goroutine calling Add, in registration order. Use the
// returned Subscription to unregister.
func (c *Collection[C]) OnItemAdded(observer Observer[C]) notify.Subscription {
	return c.added.Subscribe(notify.Handler[Event[C]](observer))
}

// OnItemRemoved registers observer for item-removed events. Observers run
// synchronously on the goroutine calling Remove or RemoveAt, after the
// removal lock has been released.
func (c *Collection[C]) OnItemRemoved(observer Observer[C]) notify.Subscription {
	return c.removed.Subscribe(notify.Handler[Event[C]](observer))
}

// Observers returns the number of registered item-added and item-removed
// observers.
func (c *Collection[C]) Observers() (added, removed int) {
	return c.added.Len(), c.removed.Len()
}

// ObserverFailures returns how many item-added and item-removed observer
// invocations have returned an error or panicked over the collection's
// lifetime.
func (c *Collection[C]) ObserverFailures() (added, removed int64) {
	return c.added.Failed(), c.removed.Failed()
}
