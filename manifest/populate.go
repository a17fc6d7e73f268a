package manifest

import (
	"context"
	"fmt"

	"github.com/amp-labs/amp-controls/controls"
	ctlErrors "github.com/amp-labs/amp-controls/errors"
	"github.com/amp-labs/amp-controls/logger"
	"github.com/amp-labs/amp-controls/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Builder turns a manifest entry into the item stored in a collection.
type Builder[C any] func(control Control) (C, error)

// Populate builds every enabled control of m and adds it to coll with
// Collection.Add, so item-added observers fire for each one. Disabled controls
// are skipped. A control that fails to build or to add is reported and the
// rest are still processed; the returned count is the number actually added.
func Populate[C any](ctx context.Context, m *Manifest, coll *controls.Collection[C], build Builder[C]) (int, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "manifest.Populate")
	defer span.End()

	var (
		problems ctlErrors.Collection
		added    int
	)

	for _, control := range m.Controls {
		if control.Disabled {
			logger.Get(ctx).Debug("skipping disabled control", "control", control.Key)

			continue
		}

		item, err := build(control)
		if err != nil {
			problems.Add(logger.AnnotateError(
				fmt.Errorf("building %q: %w", control.Key, err), "control", control.Key))

			continue
		}

		if err := coll.Add(control.Key, item); err != nil {
			problems.Add(logger.AnnotateError(err, "control", control.Key))

			continue
		}

		added++
	}

	span.SetAttributes(
		attribute.Int("controls.added", added),
		attribute.Int("controls.failed", problems.Len()))

	if err := problems.GetError(); err != nil {
		fail(span, err)

		return added, err
	}

	return added, nil
}
