package controls

import (
	"log/slog"

	"github.com/amp-labs/amp-controls/hashing"
)

const defaultName = "controls"

type options struct {
	name   string
	logger *slog.Logger
	hash   hashing.HashFunc
}

// Option configures a Collection.
type Option func(*options)

// WithName sets the name used in logs and as the metrics label.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger for debug output. By default the collection
// uses logger.Get() at the time of each log call.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithHashFunc sets the hash function used to index keys (default hashing.Xxh3).
func WithHashFunc(hash hashing.HashFunc) Option {
	return func(o *options) {
		if hash != nil {
			o.hash = hash
		}
	}
}

func newOptions(opts ...Option) options {
	o := options{
		name: defaultName,
		hash: hashing.Xxh3,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
