package controls_test

import (
	"testing"

	ctlErrors "github.com/amp-labs/amp-controls/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerator(t *testing.T) {
	t.Parallel()

	t.Run("walks items in position order and restarts", func(t *testing.T) {
		t.Parallel()

		coll := populated(t, "a", "b", "c")
		e := coll.Enumerator()

		_, err := e.Current()
		require.ErrorIs(t, err, ctlErrors.ErrIndexOutOfRange, "positioned before the first item")
		assert.Equal(t, -1, e.Index())

		var names []string

		for e.MoveNext() {
			item, err := e.Current()
			require.NoError(t, err)

			names = append(names, item.name)
		}

		assert.Equal(t, []string{"a", "b", "c"}, names)

		_, err = e.Current()
		require.ErrorIs(t, err, ctlErrors.ErrIndexOutOfRange)

		e.Reset()
		require.True(t, e.MoveNext())

		first, err := e.Current()
		require.NoError(t, err)
		assert.Equal(t, "a", first.name)
	})

	t.Run("empty collection yields nothing", func(t *testing.T) {
		t.Parallel()

		e := newCollection(t).Enumerator()
		assert.False(t, e.MoveNext())
	})

	t.Run("reads the collection live", func(t *testing.T) {
		t.Parallel()

		coll := populated(t, "a", "b", "c")
		e := coll.Enumerator()

		require.True(t, e.MoveNext())
		require.NoError(t, coll.RemoveAt(0))

		// "b" shifted under the cursor.
		current, err := e.Current()
		require.NoError(t, err)
		assert.Equal(t, "b", current.name)
	})
}

func TestCollection_All(t *testing.T) {
	t.Parallel()

	t.Run("each range starts from the beginning", func(t *testing.T) {
		t.Parallel()

		coll := populated(t, "a", "b", "c")

		for range 2 {
			var (
				positions []int
				names     []string
			)

			for i, item := range coll.All() {
				positions = append(positions, i)
				names = append(names, item.name)
			}

			assert.Equal(t, []int{0, 1, 2}, positions)
			assert.Equal(t, []string{"a", "b", "c"}, names)
		}
	})

	t.Run("break stops early", func(t *testing.T) {
		t.Parallel()

		coll := populated(t, "a", "b", "c")

		var names []string

		for _, item := range coll.All() {
			names = append(names, item.name)

			if len(names) == 2 {
				break
			}
		}

		assert.Equal(t, []string{"a", "b"}, names)
	})

	t.Run("stops when the collection shrinks under the cursor", func(t *testing.T) {
		t.Parallel()

		coll := populated(t, "a", "b", "c")

		var names []string

		for _, item := range coll.All() {
			names = append(names, item.name)
			coll.Remove(item.name)
		}

		// Each removal shifts the next item into the slot already visited.
		assert.Equal(t, []string{"a", "c"}, names)
		assert.Equal(t, []string{"b"}, coll.Keys())
	})
}
