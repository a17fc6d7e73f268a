package manifest

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/amp-controls/envutil"
	"github.com/amp-labs/amp-controls/logger"
	"github.com/amp-labs/amp-controls/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultLoadWorkers = 4

// loadWorkers is the size of the pool LoadFiles decodes on
// (CONTROLS_LOAD_WORKERS, default 4).
func loadWorkers() int {
	return envutil.Int("CONTROLS_LOAD_WORKERS",
		envutil.Default(defaultLoadWorkers),
		envutil.Positive[int]()).
		ValueOrElse(defaultLoadWorkers)
}

// LoadFiles decodes every path concurrently and merges the results in
// argument order. It fails if any file fails to load or if the merged
// manifest is invalid.
func LoadFiles(ctx context.Context, paths ...string) (*Manifest, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "manifest.LoadFiles",
		trace.WithAttributes(attribute.StringSlice("manifest.paths", paths)))
	defer span.End()

	if len(paths) == 0 {
		return Merge()
	}

	workers := min(loadWorkers(), len(paths))
	pool := pond.NewResultPool[*Manifest](workers, pond.WithContext(ctx))

	defer pool.StopAndWait()

	group := pool.NewGroup()

	for _, path := range paths {
		group.SubmitErr(func() (*Manifest, error) {
			return LoadFile(ctx, path)
		})
	}

	loaded, err := group.Wait()
	if err != nil {
		fail(span, err)

		return nil, err
	}

	merged, err := Merge(loaded...)
	if err != nil {
		fail(span, err)

		return nil, fmt.Errorf("merging %d manifests: %w", len(paths), err)
	}

	logger.Get(ctx).Debug("manifests merged", "files", len(paths), "controls", len(merged.Controls))

	return merged, nil
}
