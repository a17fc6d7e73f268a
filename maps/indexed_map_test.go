package maps_test

import (
	"hash"
	"strconv"
	"sync"
	"testing"

	"github.com/amp-labs/amp-controls/errors"
	"github.com/amp-labs/amp-controls/hashing"
	"github.com/amp-labs/amp-controls/maps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testKey struct {
	value string
}

func (k testKey) UpdateHash(h hash.Hash) error {
	_, err := h.Write([]byte(k.value))

	return err
}

func (k testKey) Equals(other testKey) bool {
	return k.value == other.value
}

// collidingHash maps every key to the same digest.
func collidingHash(hashing.Hashable) (string, error) {
	return "same", nil
}

type constructor func() maps.IndexedMap[testKey, int]

func implementations() map[string]constructor {
	return map[string]constructor{
		"plain": func() maps.IndexedMap[testKey, int] {
			return maps.NewIndexedHashMap[testKey, int](hashing.Xxh3)
		},
		"thread-safe": func() maps.IndexedMap[testKey, int] {
			return maps.NewThreadSafeIndexedMap(maps.NewIndexedHashMap[testKey, int](hashing.Sha256))
		},
	}
}

func filled(t *testing.T, newMap constructor, keys ...string) maps.IndexedMap[testKey, int] {
	t.Helper()

	m := newMap()

	for i, key := range keys {
		require.NoError(t, m.Insert(testKey{value: key}, i))
	}

	return m
}

func keysOf(m maps.IndexedMap[testKey, int]) []string {
	var out []string

	for _, kv := range m.Seq() {
		out = append(out, kv.Key.value)
	}

	return out
}

func TestIndexedMap_InsertAndAdd(t *testing.T) {
	t.Parallel()

	for name, newMap := range implementations() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := filled(t, newMap, "a", "b", "c")
			assert.Equal(t, 3, m.Size())
			assert.Equal(t, []string{"a", "b", "c"}, keysOf(m))

			err := m.Insert(testKey{value: "b"}, 99)
			require.ErrorIs(t, err, errors.ErrDuplicateKey)
			assert.Equal(t, 3, m.Size())

			appended, err := m.Add(testKey{value: "b"}, 42)
			require.NoError(t, err)
			assert.False(t, appended)

			value, found, err := m.Get(testKey{value: "b"})
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, 42, value)
			assert.Equal(t, []string{"a", "b", "c"}, keysOf(m), "replacement keeps position")

			appended, err = m.Add(testKey{value: "d"}, 3)
			require.NoError(t, err)
			assert.True(t, appended)
			assert.Equal(t, []string{"a", "b", "c", "d"}, keysOf(m))
		})
	}
}

func TestIndexedMap_Positional(t *testing.T) {
	t.Parallel()

	for name, newMap := range implementations() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := filled(t, newMap, "a", "b", "c")

			entry, err := m.At(1)
			require.NoError(t, err)
			assert.Equal(t, "b", entry.Key.value)
			assert.Equal(t, 1, entry.Value)

			require.NoError(t, m.SetAt(1, 10))
			value, _, err := m.Get(testKey{value: "b"})
			require.NoError(t, err)
			assert.Equal(t, 10, value)

			for _, idx := range []int{-1, 3, 100} {
				_, err = m.At(idx)
				require.ErrorIs(t, err, errors.ErrIndexOutOfRange)

				require.ErrorIs(t, m.SetAt(idx, 0), errors.ErrIndexOutOfRange)

				_, err = m.RemoveAt(idx)
				require.ErrorIs(t, err, errors.ErrIndexOutOfRange)
			}

			assert.Equal(t, 3, m.Size())
		})
	}
}

func TestIndexedMap_Remove(t *testing.T) {
	t.Parallel()

	for name, newMap := range implementations() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := filled(t, newMap, "a", "b", "c", "d")

			removed, err := m.RemoveAt(0)
			require.NoError(t, err)
			assert.Equal(t, "a", removed.Key.value)
			assert.Equal(t, []string{"b", "c", "d"}, keysOf(m))

			value, found, err := m.Remove(testKey{value: "c"})
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, 2, value)
			assert.Equal(t, []string{"b", "d"}, keysOf(m))

			_, found, err = m.Remove(testKey{value: "missing"})
			require.NoError(t, err)
			assert.False(t, found)

			// Positions are re-indexed after removals.
			idx, err := m.IndexOf(testKey{value: "d"})
			require.NoError(t, err)
			assert.Equal(t, 1, idx)

			idx, err = m.IndexOf(testKey{value: "a"})
			require.NoError(t, err)
			assert.Equal(t, -1, idx)

			contains, err := m.Contains(testKey{value: "d"})
			require.NoError(t, err)
			assert.True(t, contains)
		})
	}
}

func TestIndexedMap_KeysValuesFind(t *testing.T) {
	t.Parallel()

	for name, newMap := range implementations() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			m := filled(t, newMap, "a", "b", "c")

			assert.Equal(t, []testKey{{"a"}, {"b"}, {"c"}}, m.Keys())
			assert.Equal(t, []int{0, 1, 2}, m.Values())

			found := m.FindFirst(func(_ testKey, value int) bool { return value > 0 })
			entry, ok := found.Get()
			require.True(t, ok)
			assert.Equal(t, "b", entry.Key.value)

			assert.True(t, m.FindFirst(func(testKey, int) bool { return false }).Empty())
		})
	}
}

func TestIndexedMap_HashCollision(t *testing.T) {
	t.Parallel()

	m := maps.NewIndexedHashMap[testKey, int](collidingHash)
	require.NoError(t, m.Insert(testKey{value: "a"}, 1))

	require.ErrorIs(t, m.Insert(testKey{value: "b"}, 2), errors.ErrHashCollision)
	_, err := m.Add(testKey{value: "b"}, 2)
	require.ErrorIs(t, err, errors.ErrHashCollision)

	_, _, err = m.Get(testKey{value: "b"})
	require.ErrorIs(t, err, errors.ErrHashCollision)

	_, err = m.Contains(testKey{value: "b"})
	require.ErrorIs(t, err, errors.ErrHashCollision)

	assert.Equal(t, 1, m.Size())
}

func TestThreadSafeIndexedMap(t *testing.T) {
	t.Parallel()

	t.Run("wrapping twice returns the same map", func(t *testing.T) {
		t.Parallel()

		ts := maps.NewThreadSafeIndexedMap(maps.NewIndexedHashMap[testKey, int](hashing.Xxh3))
		assert.Same(t, ts, maps.NewThreadSafeIndexedMap(ts))
		assert.Nil(t, maps.NewThreadSafeIndexedMap[testKey, int](nil))
	})

	t.Run("seq iterates a snapshot", func(t *testing.T) {
		t.Parallel()

		ts := maps.NewThreadSafeIndexedMap(maps.NewIndexedHashMap[testKey, int](hashing.Xxh3))
		require.NoError(t, ts.Insert(testKey{value: "a"}, 0))
		require.NoError(t, ts.Insert(testKey{value: "b"}, 1))

		var seen []string

		for _, kv := range ts.Seq() {
			seen = append(seen, kv.Key.value)
			_, _, _ = ts.Remove(kv.Key)
		}

		assert.Equal(t, []string{"a", "b"}, seen)
		assert.Zero(t, ts.Size())
	})

	t.Run("concurrent inserts of one key admit exactly one winner", func(t *testing.T) {
		t.Parallel()

		ts := maps.NewThreadSafeIndexedMap(maps.NewIndexedHashMap[testKey, int](hashing.Xxh3))

		const workers = 32

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)

		for i := range workers {
			wg.Add(1)

			go func() {
				defer wg.Done()

				if err := ts.Insert(testKey{value: "shared"}, i); err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}

				_, _ = ts.Add(testKey{value: strconv.Itoa(i)}, i)
			}()
		}

		wg.Wait()

		assert.Equal(t, 1, wins)
		assert.Equal(t, workers+1, ts.Size())
	})
}
