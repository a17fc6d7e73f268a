package controls

import "github.com/amp-labs/amp-controls/hashing"

// CopyMode selects how much of the source NewFromCollection reproduces.
type CopyMode int

const (
	// CopyAll copies every entry of the source.
	CopyAll CopyMode = iota

	// CopyAllButLast copies every entry except the last one. Older hosts
	// populated collections this way; it is kept for callers that depend on
	// that result and must be asked for explicitly.
	CopyAllButLast
)

// NewFromCollection creates a collection holding source's keys and items in
// source order, according to mode. Items are shared by reference; the entries
// themselves are independent, so mutating either collection never affects the
// other. Observers are not copied and no notifications are fired.
//
// Unless opts set one, the copy uses the source's hash function. A nil source
// yields an empty collection.
func NewFromCollection[C any](source *Collection[C], mode CopyMode, opts ...Option) *Collection[C] {
	if source == nil {
		return New[C](opts...)
	}

	opts = append([]Option{WithHashFunc(source.store.HashFunction())}, opts...)
	c := New[C](opts...)

	entries := source.Entries()

	limit := len(entries)
	if mode == CopyAllButLast && limit > 0 {
		limit--
	}

	gauge := itemsGauge.WithLabelValues(c.name)

	for _, entry := range entries[:limit] {
		// Keys were unique in the source, so every Add appends.
		if appended, err := c.store.Add(hashing.HashableString(entry.Key), entry.Item); err == nil && appended {
			gauge.Inc()
		}
	}

	c.touch()

	return c
}

// Clone returns a full, independent copy of c with the same name and logger.
func (c *Collection[C]) Clone() *Collection[C] {
	return NewFromCollection(c, CopyAll, WithName(c.name), WithLogger(c.logger))
}
