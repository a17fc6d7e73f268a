// Package controls implements Collection, an insertion-ordered, key-unique
// collection of client-control references with positional access and
// synchronous item-added / item-removed notifications.
//
// Items are opaque references owned by the hosting application: the
// collection never creates or destroys them, it only tracks which key and
// position each one occupies.
//
// Concurrency: every method may be called from multiple goroutines. Remove and
// RemoveAt perform their lookup-and-delete under an instance mutex and notify
// observers after releasing it. Add's duplicate check and its insert are two
// separate steps; when two goroutines add the same key concurrently the store
// admits exactly one and the other receives errors.ErrDuplicateKey.
package controls

import (
	"fmt"
	"log/slog"
	"sync"

	ctlErrors "github.com/amp-labs/amp-controls/errors"
	"github.com/amp-labs/amp-controls/hashing"
	"github.com/amp-labs/amp-controls/logger"
	"github.com/amp-labs/amp-controls/maps"
	"github.com/amp-labs/amp-controls/notify"
	"github.com/amp-labs/amp-controls/optional"
	"github.com/amp-labs/amp-controls/utils"
	"go.uber.org/atomic"
)

// Entry is one key/item pair at a position in a Collection.
type Entry[C any] struct {
	Key  string
	Item C
}

// Collection is an ordered, keyed collection of items of type C. C is
// normally a pointer or interface type; a nil C is the "absent" item.
// Use New or NewFromCollection to create one.
type Collection[C any] struct {
	name    string
	logger  *slog.Logger
	mutex   sync.Mutex // guards lookup-and-delete in Remove and RemoveAt
	store   maps.IndexedMap[hashing.HashableString, C]
	added   *notify.Observers[Event[C]]
	removed *notify.Observers[Event[C]]
	version *atomic.Uint64
}

// New creates an empty collection.
func New[C any](opts ...Option) *Collection[C] {
	o := newOptions(opts...)

	return &Collection[C]{
		name:   o.name,
		logger: o.logger,
		store: maps.NewThreadSafeIndexedMap(
			maps.NewIndexedHashMap[hashing.HashableString, C](o.hash)),
		added:   notify.New[Event[C]](o.name + "/item_added"),
		removed: notify.New[Event[C]](o.name + "/item_removed"),
		version: atomic.NewUint64(0),
	}
}

// Name returns the collection's name, used as the metrics label.
func (c *Collection[C]) Name() string {
	return c.name
}

// Count returns the number of entries.
func (c *Collection[C]) Count() int {
	return c.store.Size()
}

// Version returns a counter that increases on every structural change or
// replacement. Callers can compare versions to detect concurrent mutation.
func (c *Collection[C]) Version() uint64 {
	return c.version.Load()
}

// Add appends item under key and then notifies item-added observers.
//
// It returns errors.ErrInvalidArgument if key is empty or item is nil, and
// errors.ErrDuplicateKey if key is already present. On error the collection
// is unchanged and no observer runs.
func (c *Collection[C]) Add(key string, item C) error {
	if key == "" {
		return fmt.Errorf("%w: key must not be empty", ctlErrors.ErrInvalidArgument)
	}

	if isAbsent(item) {
		return fmt.Errorf("%w: item for key %q must not be nil", ctlErrors.ErrInvalidArgument, key)
	}

	if c.Exists(key) {
		return fmt.Errorf("%w: %q", ctlErrors.ErrDuplicateKey, key)
	}

	if err := c.store.Insert(hashing.HashableString(key), item); err != nil {
		return fmt.Errorf("adding %q: %w", key, err)
	}

	c.touch()
	itemsGauge.WithLabelValues(c.name).Inc()
	itemsAdded.WithLabelValues(c.name).Inc()
	c.log().Debug("control added", "collection", c.name, "key", key)

	c.added.Notify(Event[C]{Source: c, Kind: ItemAdded, Item: item})

	return nil
}

// Exists reports whether an entry with exactly this key is present. An entry
// whose item is nil (stored through Set or SetAt) counts as present, so Add
// rejects its key with errors.ErrDuplicateKey.
func (c *Collection[C]) Exists(key string) bool {
	contains, err := c.store.Contains(hashing.HashableString(key))

	return err == nil && contains
}

// Remove deletes the entry for key and notifies item-removed observers. It
// returns false, and notifies nobody, when key is absent.
func (c *Collection[C]) Remove(key string) bool {
	c.mutex.Lock()
	item, found, err := c.store.Remove(hashing.HashableString(key))
	c.mutex.Unlock()

	if err != nil || !found {
		return false
	}

	c.afterRemove(key, item)

	return true
}

// RemoveAt deletes the entry at index and notifies item-removed observers.
// It returns errors.ErrIndexOutOfRange when index is outside [0, Count).
func (c *Collection[C]) RemoveAt(index int) error {
	c.mutex.Lock()
	entry, err := c.store.RemoveAt(index)
	c.mutex.Unlock()

	if err != nil {
		return err
	}

	c.afterRemove(entry.Key.String(), entry.Value)

	return nil
}

// afterRemove runs outside the removal lock. Entries holding a nil item
// (possible only through Set or SetAt) are removed without notification.
func (c *Collection[C]) afterRemove(key string, item C) {
	c.touch()
	itemsGauge.WithLabelValues(c.name).Dec()
	itemsRemoved.WithLabelValues(c.name).Inc()
	c.log().Debug("control removed", "collection", c.name, "key", key)

	if isAbsent(item) {
		return
	}

	c.removed.Notify(Event[C]{Source: c, Kind: ItemRemoved, Item: item})
}

// Get returns the item stored under key. When key is absent it returns the
// zero value of C and false.
func (c *Collection[C]) Get(key string) (C, bool) { //nolint:ireturn
	item, found, err := c.store.Get(hashing.HashableString(key))
	if err != nil || !found {
		var absent C

		return absent, false
	}

	return item, true
}

// Set replaces the item stored under key, keeping its position. If key is
// not present a new entry is appended.
//
// Set is a raw write: unlike Add it accepts empty keys and nil items and it
// never notifies observers, not even when it appends a new entry.
func (c *Collection[C]) Set(key string, item C) error {
	appended, err := c.store.Add(hashing.HashableString(key), item)
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}

	c.touch()

	if appended {
		itemsGauge.WithLabelValues(c.name).Inc()
	}

	c.log().Debug("control set", "collection", c.name, "key", key)

	return nil
}

// At returns the item at index, or errors.ErrIndexOutOfRange.
func (c *Collection[C]) At(index int) (C, error) { //nolint:ireturn
	entry, err := c.store.At(index)
	if err != nil {
		var absent C

		return absent, err
	}

	return entry.Value, nil
}

// SetAt replaces the item at index in place without notifying observers.
// It returns errors.ErrIndexOutOfRange when index is outside [0, Count).
func (c *Collection[C]) SetAt(index int, item C) error {
	if err := c.store.SetAt(index, item); err != nil {
		return err
	}

	c.touch()

	return nil
}

// KeyAt returns the key at index, or errors.ErrIndexOutOfRange.
func (c *Collection[C]) KeyAt(index int) (string, error) {
	entry, err := c.store.At(index)
	if err != nil {
		return "", err
	}

	return entry.Key.String(), nil
}

// IndexOf returns the position of key, or -1 if it is absent.
func (c *Collection[C]) IndexOf(key string) int {
	idx, err := c.store.IndexOf(hashing.HashableString(key))
	if err != nil {
		return -1
	}

	return idx
}

// Keys returns a snapshot of the keys in position order.
func (c *Collection[C]) Keys() []string {
	keys := c.store.Keys()
	out := make([]string, len(keys))

	for i, key := range keys {
		out[i] = key.String()
	}

	return out
}

// Items returns a snapshot of the items in position order.
func (c *Collection[C]) Items() []C {
	return c.store.Values()
}

// Entries returns a snapshot of the entries in position order.
func (c *Collection[C]) Entries() []Entry[C] {
	out := make([]Entry[C], 0, c.store.Size())

	for _, kv := range c.store.Seq() {
		out = append(out, Entry[C]{Key: kv.Key.String(), Item: kv.Value})
	}

	return out
}

// Find returns the first entry, in position order, for which predicate holds.
// The predicate runs while the store is read-locked and must not mutate c.
func (c *Collection[C]) Find(predicate func(key string, item C) bool) optional.Value[Entry[C]] {
	found := c.store.FindFirst(func(key hashing.HashableString, item C) bool {
		return predicate(key.String(), item)
	})

	return optional.Map(found, func(kv maps.KeyValuePair[hashing.HashableString, C]) Entry[C] {
		return Entry[C]{Key: kv.Key.String(), Item: kv.Value}
	})
}

// Equal reports whether other holds the same keys in the same order with
// items that are equal according to eq. A nil eq compares items by identity
// (==), which panics if C's dynamic values are not comparable.
func (c *Collection[C]) Equal(other *Collection[C], eq func(a, b C) bool) bool {
	if c == other {
		return true
	}

	if c == nil || other == nil {
		return false
	}

	if eq == nil {
		eq = func(a, b C) bool { return any(a) == any(b) }
	}

	mine, theirs := c.Entries(), other.Entries()
	if len(mine) != len(theirs) {
		return false
	}

	for i := range mine {
		if mine[i].Key != theirs[i].Key || !eq(mine[i].Item, theirs[i].Item) {
			return false
		}
	}

	return true
}

func (c *Collection[C]) touch() {
	c.version.Inc()
}

func (c *Collection[C]) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}

	return logger.Get()
}

func isAbsent[C any](item C) bool {
	return utils.IsNilish(item)
}
