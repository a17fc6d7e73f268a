// Package manifest loads declarative lists of client controls from YAML and
// populates controls.Collection values from them.
//
// A manifest looks like:
//
//	version: 1
//	controls:
//	  - key: weather
//	    kind: soap
//	    endpoint: https://example.com/weather.asmx
//	    timeout: 5s
//	    labels:
//	      team: forecasting
//	  - key: legacy
//	    kind: soap
//	    disabled: true
package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	ctlErrors "github.com/amp-labs/amp-controls/errors"
	"github.com/amp-labs/amp-controls/logger"
	"github.com/amp-labs/amp-controls/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the only manifest version understood by this package.
const CurrentVersion = 1

var (
	// ErrEmptyManifest is returned when a document holds no YAML at all.
	ErrEmptyManifest = errors.New("empty manifest")

	// ErrInvalidManifest wraps every problem reported by Validate.
	ErrInvalidManifest = errors.New("invalid manifest")
)

// Control describes one client control.
type Control struct {
	Key         string            `yaml:"key"`
	Kind        string            `yaml:"kind"`
	Endpoint    string            `yaml:"endpoint,omitempty"`
	Description string            `yaml:"description,omitempty"`
	Timeout     time.Duration     `yaml:"timeout,omitempty"`
	Disabled    bool              `yaml:"disabled,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
}

// Manifest is one decoded document. Source is the file it came from, if any.
type Manifest struct {
	Version  int       `yaml:"version"`
	Controls []Control `yaml:"controls"`
	Source   string    `yaml:"-"`
}

// Keys returns the keys of all controls, enabled or not, in document order.
func (m *Manifest) Keys() []string {
	keys := make([]string, 0, len(m.Controls))

	for _, c := range m.Controls {
		keys = append(keys, c.Key)
	}

	return keys
}

// Validate reports every problem in m at once: an unsupported version, and
// controls with an empty key, a duplicate key or a negative timeout.
func (m *Manifest) Validate() error {
	var problems ctlErrors.Collection

	if m.Version != CurrentVersion {
		problems.Add(fmt.Errorf("%w: unsupported version %d", ErrInvalidManifest, m.Version))
	}

	seen := make(map[string]int, len(m.Controls))

	for i, c := range m.Controls {
		if c.Key == "" {
			problems.Add(fmt.Errorf("%w: control %d has no key", ErrInvalidManifest, i))

			continue
		}

		if first, dup := seen[c.Key]; dup {
			problems.Add(fmt.Errorf("%w: control %d: %w %q (first seen at %d)",
				ErrInvalidManifest, i, ctlErrors.ErrDuplicateKey, c.Key, first))
		} else {
			seen[c.Key] = i
		}

		if c.Timeout < 0 {
			problems.Add(fmt.Errorf("%w: control %q has negative timeout %s", ErrInvalidManifest, c.Key, c.Timeout))
		}
	}

	return problems.GetError()
}

// Decode reads and validates a single YAML document from r. Unknown fields
// are rejected.
func Decode(ctx context.Context, r io.Reader) (*Manifest, error) {
	_, span := telemetry.Tracer().Start(ctx, "manifest.Decode")
	defer span.End()

	m, err := decode(r)
	if err != nil {
		fail(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.Int("controls.count", len(m.Controls)))

	return m, nil
}

func decode(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest

	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyManifest
		}

		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// LoadFile decodes the manifest stored at path. Errors are annotated with the
// path for logging.
func LoadFile(ctx context.Context, path string) (*Manifest, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "manifest.LoadFile",
		trace.WithAttributes(attribute.String("manifest.path", path)))
	defer span.End()

	f, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		fail(span, err)

		return nil, logger.AnnotateError(fmt.Errorf("opening manifest: %w", err), "manifest", path)
	}

	defer func() {
		_ = f.Close()
	}()

	m, err := Decode(ctx, f)
	if err != nil {
		fail(span, err)

		return nil, logger.AnnotateError(fmt.Errorf("loading %s: %w", path, err), "manifest", path)
	}

	m.Source = path

	logger.Get(ctx).Debug("manifest loaded", "manifest", path, "controls", len(m.Controls))

	return m, nil
}

// Merge concatenates manifests in argument order and validates the result,
// so a key defined in two files is reported as a duplicate.
func Merge(manifests ...*Manifest) (*Manifest, error) {
	merged := &Manifest{Version: CurrentVersion}

	for _, m := range manifests {
		if m == nil {
			continue
		}

		merged.Controls = append(merged.Controls, m.Controls...)
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}

	return merged, nil
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
