package controls

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct{}

func TestCollectionMetrics(t *testing.T) {
	t.Parallel()

	const name = "metrics-test"

	coll := New[*probe](WithName(name))

	require.NoError(t, coll.Add("a", &probe{}))
	require.NoError(t, coll.Add("b", &probe{}))
	require.NoError(t, coll.Add("c", &probe{}))

	assert.InDelta(t, 3.0, testutil.ToFloat64(itemsAdded.WithLabelValues(name)), 0)
	assert.InDelta(t, 3.0, testutil.ToFloat64(itemsGauge.WithLabelValues(name)), 0)

	assert.True(t, coll.Remove("a"))
	require.NoError(t, coll.RemoveAt(0))

	assert.InDelta(t, 2.0, testutil.ToFloat64(itemsRemoved.WithLabelValues(name)), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(itemsGauge.WithLabelValues(name)), 0)
	assert.Equal(t, uint64(5), coll.Version())
}

func TestItemsGaugeSumsCollectionsSharingAName(t *testing.T) {
	t.Parallel()

	const name = "shared-gauge"

	gauge := func() float64 { return testutil.ToFloat64(itemsGauge.WithLabelValues(name)) }

	first := New[*probe](WithName(name))
	second := New[*probe](WithName(name))

	require.NoError(t, first.Add("a", &probe{}))
	require.NoError(t, first.Add("b", &probe{}))
	require.NoError(t, first.Add("c", &probe{}))
	require.NoError(t, second.Add("a", &probe{}))

	assert.Equal(t, 3, first.Count())
	assert.Equal(t, 1, second.Count())
	assert.InDelta(t, 4.0, gauge(), 0)

	// Replacing in place does not change the total; appending through Set does.
	require.NoError(t, second.Set("a", &probe{}))
	require.NoError(t, second.SetAt(0, &probe{}))
	assert.InDelta(t, 4.0, gauge(), 0)

	require.NoError(t, second.Set("z", nil))
	assert.InDelta(t, 5.0, gauge(), 0)

	clone := first.Clone()
	assert.InDelta(t, 8.0, gauge(), 0)

	partial := NewFromCollection(first, CopyAllButLast, WithName(name))
	assert.Equal(t, 2, partial.Count())
	assert.InDelta(t, 10.0, gauge(), 0)

	assert.True(t, clone.Remove("a"))
	assert.True(t, second.Remove("z"))
	assert.False(t, second.Remove("missing"))
	require.NoError(t, partial.RemoveAt(0))
	assert.InDelta(t, 7.0, gauge(), 0)

	assert.Equal(t, first.Count()+second.Count()+clone.Count()+partial.Count(), int(gauge()))
}
