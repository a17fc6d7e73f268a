package maps

import (
	"iter"
	"sync"

	"github.com/amp-labs/amp-controls/hashing"
	"github.com/amp-labs/amp-controls/optional"
)

// NewThreadSafeIndexedMap wraps an IndexedMap so that every method runs under
// a sync.RWMutex. Mutations take the write lock; reads share the read lock.
// Wrapping an already thread-safe map returns it unchanged.
//
// Individual calls are atomic; sequences of calls are not. Callers that need
// a lookup followed by a mutation to be atomic must hold their own lock.
//
// Example:
//
//	store := maps.NewThreadSafeIndexedMap(
//	    maps.NewIndexedHashMap[hashing.HashableString, *Control](hashing.Xxh3))
func NewThreadSafeIndexedMap[K Key[K], V any](m IndexedMap[K, V]) IndexedMap[K, V] {
	if m == nil {
		return nil
	}

	if ts, ok := m.(*threadSafeIndexedMap[K, V]); ok {
		return ts
	}

	return &threadSafeIndexedMap[K, V]{internal: m}
}

type threadSafeIndexedMap[K Key[K], V any] struct {
	mutex    sync.RWMutex
	internal IndexedMap[K, V]
}

func (t *threadSafeIndexedMap[K, V]) Get(key K) (V, bool, error) { //nolint:ireturn
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Get(key)
}

func (t *threadSafeIndexedMap[K, V]) Add(key K, value V) (bool, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.internal.Add(key, value)
}

func (t *threadSafeIndexedMap[K, V]) Insert(key K, value V) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.internal.Insert(key, value)
}

func (t *threadSafeIndexedMap[K, V]) Remove(key K) (V, bool, error) { //nolint:ireturn
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.internal.Remove(key)
}

func (t *threadSafeIndexedMap[K, V]) RemoveAt(index int) (KeyValuePair[K, V], error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.internal.RemoveAt(index)
}

func (t *threadSafeIndexedMap[K, V]) At(index int) (KeyValuePair[K, V], error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.At(index)
}

func (t *threadSafeIndexedMap[K, V]) SetAt(index int, value V) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.internal.SetAt(index, value)
}

func (t *threadSafeIndexedMap[K, V]) IndexOf(key K) (int, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.IndexOf(key)
}

func (t *threadSafeIndexedMap[K, V]) Contains(key K) (bool, error) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Contains(key)
}

func (t *threadSafeIndexedMap[K, V]) Size() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Size()
}

// Seq snapshots the entries under the read lock and iterates the snapshot
// with no lock held, so the caller may mutate the map while ranging.
func (t *threadSafeIndexedMap[K, V]) Seq() iter.Seq2[int, KeyValuePair[K, V]] {
	t.mutex.RLock()

	snapshot := make([]KeyValuePair[K, V], 0, t.internal.Size())
	for _, kv := range t.internal.Seq() {
		snapshot = append(snapshot, kv)
	}

	t.mutex.RUnlock()

	return func(yield func(int, KeyValuePair[K, V]) bool) {
		for i, kv := range snapshot {
			if !yield(i, kv) {
				return
			}
		}
	}
}

func (t *threadSafeIndexedMap[K, V]) Keys() []K {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Keys()
}

func (t *threadSafeIndexedMap[K, V]) Values() []V {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Values()
}

// FindFirst evaluates predicate while holding the read lock; the predicate
// must not call back into the map with a mutation.
func (t *threadSafeIndexedMap[K, V]) FindFirst(
	predicate func(key K, value V) bool,
) optional.Value[KeyValuePair[K, V]] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.FindFirst(predicate)
}

func (t *threadSafeIndexedMap[K, V]) HashFunction() hashing.HashFunc {
	return t.internal.HashFunction()
}
