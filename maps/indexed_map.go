// Package maps provides the ordered, key-unique stores that back the control
// collections. Keys are hashed with a pluggable hashing.HashFunc and compared
// with Equals to detect collisions; entries keep insertion order and can be
// addressed by key or by position.
package maps

import (
	"fmt"
	"iter"
	"slices"

	"github.com/amp-labs/amp-controls/errors"
	"github.com/amp-labs/amp-controls/hashing"
	"github.com/amp-labs/amp-controls/optional"
)

// Key is the constraint for store keys: hashable for lookup, comparable for
// collision detection.
type Key[K any] interface {
	hashing.Hashable
	Equals(other K) bool
}

// KeyValuePair is one entry of an IndexedMap.
type KeyValuePair[K any, V any] struct {
	Key   K
	Value V
}

// IndexedMap is an insertion-ordered hash map whose entries can also be read,
// replaced and removed by position. Positions are dense: removing the entry at
// position i shifts every later entry down by one.
//
// Methods that hash a key may return errors.ErrHashCollision when two distinct
// keys share a digest, or the error produced by the hash function itself.
//
// Thread-safety: implementations are not thread-safe unless documented. Use
// NewThreadSafeIndexedMap for concurrent access.
//
//nolint:interfacebloat // cohesive store API
type IndexedMap[K Key[K], V any] interface {
	// Get returns the value stored for key, with found=false if it is absent.
	Get(key K) (value V, found bool, err error)

	// Add inserts or replaces. A replaced entry keeps its position; a new one
	// is appended at the end and appended is true.
	Add(key K, value V) (appended bool, err error)

	// Insert appends a new entry, failing with errors.ErrDuplicateKey if the
	// key is already present.
	Insert(key K, value V) error

	// Remove deletes key and returns the value it held. Removing an absent key
	// is a no-op that reports found=false.
	Remove(key K) (value V, found bool, err error)

	// RemoveAt deletes the entry at index and returns it.
	// Returns errors.ErrIndexOutOfRange outside [0, Size).
	RemoveAt(index int) (KeyValuePair[K, V], error)

	// At returns the entry at index.
	// Returns errors.ErrIndexOutOfRange outside [0, Size).
	At(index int) (KeyValuePair[K, V], error)

	// SetAt replaces the value at index without moving it.
	// Returns errors.ErrIndexOutOfRange outside [0, Size).
	SetAt(index int, value V) error

	// IndexOf returns the position of key, or -1 if absent.
	IndexOf(key K) (int, error)

	// Contains reports whether key is present.
	Contains(key K) (bool, error)

	// Size returns the number of entries.
	Size() int

	// Seq ranges over (position, entry) in order.
	Seq() iter.Seq2[int, KeyValuePair[K, V]]

	// Keys returns the keys in order.
	Keys() []K

	// Values returns the values in order.
	Values() []V

	// FindFirst returns the first entry, in order, satisfying predicate.
	FindFirst(predicate func(key K, value V) bool) optional.Value[KeyValuePair[K, V]]

	// HashFunction returns the hash function used for keys.
	HashFunction() hashing.HashFunc
}

// NewIndexedHashMap creates an empty IndexedMap that indexes keys with hash.
// The returned map is not thread-safe.
//
// Example:
//
//	m := maps.NewIndexedHashMap[hashing.HashableString, *Control](hashing.Xxh3)
//	_ = m.Insert("weather", weather)
//	entry, _ := m.At(0) // entry.Key == "weather"
func NewIndexedHashMap[K Key[K], V any](hash hashing.HashFunc) IndexedMap[K, V] {
	return &indexedHashMap[K, V]{
		hash:  hash,
		index: make(map[string]int),
	}
}

// slot is one positional entry; the digest is kept so that positions can be
// re-indexed after a removal without rehashing.
type slot[K any, V any] struct {
	digest string
	pair   KeyValuePair[K, V]
}

type indexedHashMap[K Key[K], V any] struct {
	hash  hashing.HashFunc
	slots []slot[K, V]   // entries in position order
	index map[string]int // digest -> position in slots
}

// locate hashes key and finds its position. pos is -1 when absent.
func (m *indexedHashMap[K, V]) locate(key K) (digest string, pos int, err error) {
	digest, err = m.hash(key)
	if err != nil {
		return "", -1, err
	}

	pos, ok := m.index[digest]
	if !ok {
		return digest, -1, nil
	}

	if !key.Equals(m.slots[pos].pair.Key) {
		return "", -1, errors.ErrHashCollision
	}

	return digest, pos, nil
}

func (m *indexedHashMap[K, V]) checkIndex(index int) error {
	if index < 0 || index >= len(m.slots) {
		return fmt.Errorf("%w: index %d, size %d", errors.ErrIndexOutOfRange, index, len(m.slots))
	}

	return nil
}

// reindex refreshes the digest index for every slot at or after from.
func (m *indexedHashMap[K, V]) reindex(from int) {
	for i := from; i < len(m.slots); i++ {
		m.index[m.slots[i].digest] = i
	}
}

func (m *indexedHashMap[K, V]) Get(key K) (V, bool, error) { //nolint:ireturn
	var zero V

	_, pos, err := m.locate(key)
	if err != nil || pos < 0 {
		return zero, false, err
	}

	return m.slots[pos].pair.Value, true, nil
}

func (m *indexedHashMap[K, V]) Add(key K, value V) (bool, error) {
	digest, pos, err := m.locate(key)
	if err != nil {
		return false, err
	}

	if pos >= 0 {
		m.slots[pos].pair.Value = value

		return false, nil
	}

	m.push(digest, key, value)

	return true, nil
}

func (m *indexedHashMap[K, V]) Insert(key K, value V) error {
	digest, pos, err := m.locate(key)
	if err != nil {
		return err
	}

	if pos >= 0 {
		return errors.ErrDuplicateKey
	}

	m.push(digest, key, value)

	return nil
}

func (m *indexedHashMap[K, V]) push(digest string, key K, value V) {
	m.index[digest] = len(m.slots)
	m.slots = append(m.slots, slot[K, V]{
		digest: digest,
		pair:   KeyValuePair[K, V]{Key: key, Value: value},
	})
}

func (m *indexedHashMap[K, V]) Remove(key K) (V, bool, error) { //nolint:ireturn
	var zero V

	_, pos, err := m.locate(key)
	if err != nil || pos < 0 {
		return zero, false, err
	}

	removed := m.removeSlot(pos)

	return removed.Value, true, nil
}

func (m *indexedHashMap[K, V]) RemoveAt(index int) (KeyValuePair[K, V], error) {
	if err := m.checkIndex(index); err != nil {
		return KeyValuePair[K, V]{}, err
	}

	return m.removeSlot(index), nil
}

func (m *indexedHashMap[K, V]) removeSlot(pos int) KeyValuePair[K, V] {
	removed := m.slots[pos]

	delete(m.index, removed.digest)
	m.slots = slices.Delete(m.slots, pos, pos+1)
	m.reindex(pos)

	return removed.pair
}

func (m *indexedHashMap[K, V]) At(index int) (KeyValuePair[K, V], error) {
	if err := m.checkIndex(index); err != nil {
		return KeyValuePair[K, V]{}, err
	}

	return m.slots[index].pair, nil
}

func (m *indexedHashMap[K, V]) SetAt(index int, value V) error {
	if err := m.checkIndex(index); err != nil {
		return err
	}

	m.slots[index].pair.Value = value

	return nil
}

func (m *indexedHashMap[K, V]) IndexOf(key K) (int, error) {
	_, pos, err := m.locate(key)
	if err != nil {
		return -1, err
	}

	return pos, nil
}

func (m *indexedHashMap[K, V]) Contains(key K) (bool, error) {
	_, pos, err := m.locate(key)
	if err != nil {
		return false, err
	}

	return pos >= 0, nil
}

func (m *indexedHashMap[K, V]) Size() int {
	return len(m.slots)
}

// Seq reads the live map. Entries appended during iteration are visited;
// removals shift later entries under the cursor.
func (m *indexedHashMap[K, V]) Seq() iter.Seq2[int, KeyValuePair[K, V]] {
	return func(yield func(int, KeyValuePair[K, V]) bool) {
		for i := 0; i < len(m.slots); i++ {
			if !yield(i, m.slots[i].pair) {
				return
			}
		}
	}
}

func (m *indexedHashMap[K, V]) Keys() []K {
	keys := make([]K, 0, len(m.slots))

	for _, s := range m.slots {
		keys = append(keys, s.pair.Key)
	}

	return keys
}

func (m *indexedHashMap[K, V]) Values() []V {
	values := make([]V, 0, len(m.slots))

	for _, s := range m.slots {
		values = append(values, s.pair.Value)
	}

	return values
}

func (m *indexedHashMap[K, V]) FindFirst(
	predicate func(key K, value V) bool,
) optional.Value[KeyValuePair[K, V]] {
	for _, s := range m.slots {
		if predicate(s.pair.Key, s.pair.Value) {
			return optional.Some(s.pair)
		}
	}

	return optional.None[KeyValuePair[K, V]]()
}

func (m *indexedHashMap[K, V]) HashFunction() hashing.HashFunc {
	return m.hash
}
