package utils //nolint:revive // utils is an appropriate package name for utility functions

import (
	"fmt"

	"github.com/amp-labs/amp-controls/errors"
)

// GetPanicRecoveryError converts a recovered panic value into an error wrapping
// errors.ErrPanicRecovery. A nil panic value yields nil. If the value is itself
// an error it stays reachable through errors.Is/As. A non-nil stack is appended
// to the message.
func GetPanicRecoveryError(recovered any, stack []byte) error {
	if recovered == nil {
		return nil
	}

	var err error

	if recErr, ok := recovered.(error); ok {
		err = fmt.Errorf("%w: %w", errors.ErrPanicRecovery, recErr)
	} else {
		err = fmt.Errorf("%w: %v", errors.ErrPanicRecovery, recovered)
	}

	if stack != nil {
		return fmt.Errorf("%w\nstack trace:\n%s", err, string(stack))
	}

	return err
}
