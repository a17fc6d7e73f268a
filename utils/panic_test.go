package utils //nolint:revive // utils is an appropriate package name for utility functions

import (
	"errors"
	"testing"

	ctlErrors "github.com/amp-labs/amp-controls/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPanicRecoveryError(t *testing.T) {
	t.Parallel()

	t.Run("returns nil for nil panic value", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, GetPanicRecoveryError(nil, nil))
	})

	t.Run("wraps error panic value", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("observer exploded") //nolint:err113
		err := GetPanicRecoveryError(originalErr, nil)

		require.ErrorIs(t, err, ctlErrors.ErrPanicRecovery)
		require.ErrorIs(t, err, originalErr)
	})

	t.Run("formats non-error panic value", func(t *testing.T) {
		t.Parallel()

		err := GetPanicRecoveryError("boom", nil)

		require.ErrorIs(t, err, ctlErrors.ErrPanicRecovery)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("appends stack trace", func(t *testing.T) {
		t.Parallel()

		err := GetPanicRecoveryError("boom", []byte("goroutine 1 [running]"))

		require.ErrorIs(t, err, ctlErrors.ErrPanicRecovery)
		assert.Contains(t, err.Error(), "stack trace:\ngoroutine 1 [running]")
	})
}
