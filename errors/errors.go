// Package errors holds the sentinel errors shared by the collection, its store
// and the notification layer, plus a small multi-error accumulator.
package errors

import "errors"

var (
	// ErrInvalidArgument is returned when a required key or item is absent.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateKey is returned when inserting a key that is already present.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrIndexOutOfRange is returned for positional access outside [0, Count).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrHashCollision is returned when two distinct keys produce the same hash value.
	// It means the hash function is not suitable for the key space in use.
	ErrHashCollision = errors.New("hashing collision")

	// ErrPanicRecovery wraps values recovered from a panic.
	ErrPanicRecovery = errors.New("recovered from panic")
)

// Collection is a thread-unsafe utility for accumulating multiple errors.
// Use this when several independent checks should all be reported together.
type Collection struct {
	errors []error
}

// Add appends an error to the collection. Nil errors are ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// Clear removes all errors from the collection.
func (c *Collection) Clear() {
	c.errors = nil
}

// HasError returns true if the collection contains at least one error.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// Len returns the number of collected errors.
func (c *Collection) Len() int {
	return len(c.errors)
}

// GetError returns nil for an empty collection, the error itself when only one
// was added, and an errors.Join of all of them otherwise.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}
