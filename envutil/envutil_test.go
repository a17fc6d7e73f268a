package envutil_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/amp-labs/amp-controls/envutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRequired = errors.New("required")

func TestString(t *testing.T) {
	t.Setenv("ENVUTIL_STRING", "value")

	assert.Equal(t, "value", envutil.String("ENVUTIL_STRING").ValueOrElse("other"))
	assert.Equal(t, "other", envutil.String("ENVUTIL_STRING_MISSING").ValueOrElse("other"))

	_, err := envutil.String("ENVUTIL_STRING_MISSING").Value()
	require.ErrorIs(t, err, envutil.ErrEnvVarMissing)

	_, err = envutil.String("ENVUTIL_STRING_MISSING", envutil.IfMissing[string](errRequired)).Value()
	require.ErrorIs(t, err, errRequired)
	require.ErrorIs(t, err, envutil.ErrBadEnvVar)
}

func TestTypedReaders(t *testing.T) {
	t.Setenv("ENVUTIL_BOOL", "true")
	t.Setenv("ENVUTIL_INT", "12")
	t.Setenv("ENVUTIL_FLOAT", "0.25")
	t.Setenv("ENVUTIL_DURATION", "1500ms")
	t.Setenv("ENVUTIL_LEVEL", " WARN ")
	t.Setenv("ENVUTIL_BAD_INT", "twelve")

	assert.True(t, envutil.Bool("ENVUTIL_BOOL").ValueOrElse(false))
	assert.Equal(t, 12, envutil.Int("ENVUTIL_INT").ValueOrElse(0))
	assert.InDelta(t, 0.25, envutil.Float64("ENVUTIL_FLOAT").ValueOrElse(0), 0)
	assert.Equal(t, 1500*time.Millisecond, envutil.Duration("ENVUTIL_DURATION").ValueOrElse(0))
	assert.Equal(t, slog.LevelWarn, envutil.SlogLevel("ENVUTIL_LEVEL").ValueOrElse(slog.LevelInfo))

	bad := envutil.Int("ENVUTIL_BAD_INT", envutil.Default(3))
	assert.False(t, bad.HasValue())
	require.Error(t, bad.Error())
	assert.Equal(t, 3, bad.ValueOrElse(3))
}

func TestOptions(t *testing.T) {
	t.Setenv("ENVUTIL_NEGATIVE", "-1")
	t.Setenv("ENVUTIL_FALLBACK", "7")

	assert.Equal(t, 4, envutil.Int("ENVUTIL_UNSET", envutil.Default(4)).ValueOrElse(0))

	_, err := envutil.Int("ENVUTIL_NEGATIVE", envutil.Positive[int]()).Value()
	require.ErrorIs(t, err, envutil.ErrNotPositive)

	fallback := envutil.Int("ENVUTIL_UNSET", envutil.Fallback(envutil.Int("ENVUTIL_FALLBACK")))
	assert.Equal(t, 7, fallback.ValueOrElse(0))
	assert.Equal(t, "ENVUTIL_FALLBACK", fallback.Key())

	_, err = envutil.SlogLevel("ENVUTIL_FALLBACK").Value()
	require.ErrorIs(t, err, envutil.ErrInvalidLogLevel)
}

func TestReaderString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "K=v", envutil.NewReader("K", true, nil, "v").String())
	assert.Equal(t, "K=<not set>", envutil.NewReader("K", false, nil, "").String())
	assert.Equal(t, "K=<error: required>", envutil.NewReader("K", true, errRequired, "").String())
}
