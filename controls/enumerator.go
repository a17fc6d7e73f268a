package controls

import "iter"

// Enumerator is a forward cursor over a Collection. It starts before the
// first item; call MoveNext before reading Current. It reads the collection
// live, so mutations made while enumerating shift items under the cursor.
type Enumerator[C any] struct {
	source *Collection[C]
	index  int
}

// Enumerator returns a new cursor positioned before the first item.
func (c *Collection[C]) Enumerator() *Enumerator[C] {
	return &Enumerator[C]{source: c, index: -1}
}

// MoveNext advances the cursor and reports whether it is on an item.
func (e *Enumerator[C]) MoveNext() bool {
	e.index++

	return e.index < e.source.Count()
}

// Current returns the item under the cursor. Before the first MoveNext or
// after the last one it returns errors.ErrIndexOutOfRange.
func (e *Enumerator[C]) Current() (C, error) { //nolint:ireturn
	return e.source.At(e.index)
}

// Index returns the cursor position; -1 before the first MoveNext.
func (e *Enumerator[C]) Index() int {
	return e.index
}

// Reset moves the cursor back before the first item.
func (e *Enumerator[C]) Reset() {
	e.index = -1
}

// All ranges over (position, item) using a fresh Enumerator, so each range
// loop starts from the beginning. Iteration stops early if the collection
// shrinks beneath the cursor.
func (c *Collection[C]) All() iter.Seq2[int, C] {
	return func(yield func(int, C) bool) {
		e := c.Enumerator()

		for e.MoveNext() {
			item, err := e.Current()
			if err != nil {
				return
			}

			if !yield(e.Index(), item) {
				return
			}
		}
	}
}
