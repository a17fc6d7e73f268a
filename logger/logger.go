// Package logger configures log/slog for controlset binaries and hands out
// loggers that carry the subsystem, host and any values stashed in a context.
//
// A binary calls ConfigureLogging once at startup. Code that has a context
// then asks for a logger with Get, which picks up whatever was attached to the
// context with WithSubsystem, WithMuted or With:
//
//	logger.ConfigureLogging("controlset")
//
//	ctx = logger.With(ctx, "manifest", path)
//	logger.Get(ctx).Info("manifest loaded", "controls", n)
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/amp-labs/amp-controls/envutil"
	"github.com/amp-labs/amp-controls/lazy"
)

// subsystem holds the default subsystem name, set by ConfigureLoggingWithOptions.
// Loggers use it unless the context overrides it with WithSubsystem.
var subsystem atomic.Value //nolint:gochecknoglobals

// configMutex protects concurrent calls to ConfigureLoggingWithOptions, which
// replaces both slog.Default and log.Default.
var configMutex sync.Mutex //nolint:gochecknoglobals

type contextKey string

const (
	subsystemKey contextKey = "subsystem"
	mutedKey     contextKey = "mute"
	valuesKey    contextKey = "loggerValues"
)

// ErrInvalidLogOutput is returned when LOG_OUTPUT names an unknown destination.
var ErrInvalidLogOutput = errors.New("invalid log output")

// Fatal logs an error message at error level through the default logger and
// exits the process with status 1. Deferred functions do not run.
//
// Example:
//
//	if err := run(); err != nil {
//		logger.Fatal("controlset failed", "error", err)
//	}
func Fatal(msg string, args ...any) {
	Get().Error(msg, args...)

	os.Exit(1)
}

// Options is used to configure logging.
type Options struct {
	// Subsystem becomes the default "subsystem" attribute of every logger.
	Subsystem string

	// JSON selects the JSON handler. The text handler is used otherwise.
	JSON bool

	// MinLevel is the lowest level the slog handler emits.
	MinLevel slog.Level

	// LegacyLevel is the level assigned to lines written through the
	// standard log package.
	LegacyLevel slog.Level

	// Output is the log destination. Nil means os.Stdout.
	Output io.Writer
}

// Option is a functional option for configuring logging via ConfigureLogging.
// Options are applied after the environment has been read, so they win over
// LOG_OUTPUT and LOG_LEVEL.
type Option func(*Options)

// WithOutput overrides the log destination. Tests use it to capture output:
//
//	var buf bytes.Buffer
//	logger.ConfigureLogging("test", logger.WithOutput(&buf))
func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Output = w
	}
}

// WithMinLevel overrides the minimum level read from LOG_LEVEL. Records below
// the level are dropped by the handler.
func WithMinLevel(level slog.Level) Option {
	return func(o *Options) {
		o.MinLevel = level
	}
}

// ConfigureLoggingWithOptions configures logging for the application and
// returns the default logger. It installs a text or JSON handler as the slog
// default and redirects the standard log package into it.
//
// Errors created with AnnotateError have their attributes expanded by the
// installed handler.
//
// This function is safe for concurrent use, but it modifies global state, so
// concurrent calls are serialized and the last one wins.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.MinLevel}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	}

	handler = &slogErrorLogger{inner: handler}
	logger := slog.New(handler)

	slog.SetDefault(logger)

	// Third-party packages may still write through the log package.
	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.LegacyLevel)

	subsystem.Store(opts.Subsystem)

	return logger
}

// ConfigureLogging configures logging for the application and returns the
// default logger. It reads the following environment variables:
//
//	LOG_JSON          "true" selects JSON output (default false)
//	LOG_LEVEL         minimum slog level (default INFO)
//	LEGACY_LOG_LEVEL  level for the standard log package (default INFO)
//	LOG_OUTPUT        "stdout" or "stderr" (default stdout)
//
// An unparseable variable is fatal. The resulting Options are then adjusted
// by opts, and app becomes the default subsystem.
func ConfigureLogging(app string, opts ...Option) *slog.Logger {
	logJSON := envutil.Bool("LOG_JSON", envutil.Default(false)).ValueOrFatal()
	minLevel := envutil.SlogLevel("LOG_LEVEL", envutil.Default(slog.LevelInfo)).ValueOrFatal()
	legacyLevel := envutil.SlogLevel("LEGACY_LOG_LEVEL", envutil.Default(slog.LevelInfo)).ValueOrFatal()

	output := envutil.Map(envutil.String("LOG_OUTPUT"), parseOutput).
		WithDefault(os.Stdout).
		ValueOrFatal()

	options := Options{
		Subsystem:   app,
		JSON:        logJSON,
		MinLevel:    minLevel,
		LegacyLevel: legacyLevel,
		Output:      output,
	}

	for _, o := range opts {
		o(&options)
	}

	return ConfigureLoggingWithOptions(options)
}

func parseOutput(name string) (io.Writer, error) {
	switch name {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogOutput, name)
	}
}

// WithMuted adds a muted flag to the context. When muted is true, Get returns a
// logger that discards all output for this context and any derived from it.
// Passing false re-enables logging for a derived context.
//
// A nil ctx is treated as context.Background().
func WithMuted(ctx context.Context, muted bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, mutedKey, muted)
}

func isMuted(ctx context.Context) bool {
	muted, ok := ctx.Value(mutedKey).(bool)

	return ok && muted
}

// WithSubsystem adds a subsystem to the context. Loggers obtained from the
// context report it instead of the default subsystem set by ConfigureLogging.
//
// Example:
//
//	ctx = logger.WithSubsystem(ctx, "manifest")
//	logger.Get(ctx).Debug("decoding") // ... subsystem=manifest
func WithSubsystem(ctx context.Context, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, subsystemKey, name)
}

// GetSubsystem returns the subsystem from the context. If the context carries
// none, the default subsystem set by ConfigureLogging is returned, or the empty
// string if logging was never configured.
func GetSubsystem(ctx context.Context) string {
	if ctx != nil {
		if val, ok := ctx.Value(subsystemKey).(string); ok {
			return val
		}
	}

	if val, ok := subsystem.Load().(string); ok {
		return val
	}

	return ""
}

// With returns a new context with the given key/value pairs added. Loggers
// obtained from the context carry them in addition to any pairs added by
// earlier calls. With no values the context is returned unchanged.
//
// Example:
//
//	ctx = logger.With(ctx, "manifest", path)
//	logger.Get(ctx).Info("loaded") // ... manifest=controls.yaml
func With(ctx context.Context, values ...any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	if len(values) == 0 {
		return ctx
	}

	existing := getValues(ctx)
	vals := make([]any, 0, len(existing)+len(values))
	vals = append(vals, existing...)
	vals = append(vals, values...)

	return context.WithValue(ctx, valuesKey, vals)
}

func getValues(ctx context.Context) []any {
	vals, _ := ctx.Value(valuesKey).([]any)

	return vals
}

// hostname is the pod name when running in Kubernetes and the local machine
// name otherwise. It is resolved on first use.
var hostname = lazy.New(func() string { //nolint:gochecknoglobals
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}

	return h
})

// Hostname returns the machine (or pod) name attached to every logger as the
// "pod" attribute. It returns "unknown" if the name cannot be resolved.
func Hostname() string {
	return hostname.Get()
}

// nullHandler discards all records. It backs the muted logger.
type nullHandler struct{}

func (nullHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nullHandler) Handle(context.Context, slog.Record) error { return nil }
func (n nullHandler) WithAttrs([]slog.Attr) slog.Handler      { return n }
func (n nullHandler) WithGroup(string) slog.Handler           { return n }

var nullLogger = slog.New(nullHandler{}) //nolint:gochecknoglobals

// Get returns a logger derived from the default one. The first non-nil
// context in ctx decides what it carries: the subsystem (see WithSubsystem),
// the hostname as "pod", and any values added with With. A muted context
// yields a logger that discards everything. With no context,
// context.Background() is used.
//
// Example:
//
//	log := logger.Get(ctx)
//	log.Info("control removed", "control", key)
func Get(ctx ...context.Context) *slog.Logger {
	realCtx := context.Background()

	for _, c := range ctx {
		if c != nil {
			realCtx = c

			break
		}
	}

	if isMuted(realCtx) {
		return nullLogger
	}

	logger := slog.Default().With(
		"subsystem", GetSubsystem(realCtx),
		"pod", hostname.Get())

	if vals := getValues(realCtx); len(vals) > 0 {
		logger = logger.With(vals...)
	}

	return logger
}
