package envutil

import (
	"errors"
	"fmt"
)

// ErrNotPositive is returned by Positive.
var ErrNotPositive = errors.New("value must be positive")

// Option modifies a Reader; String, Bool and friends apply them in order.
type Option[T any] func(Reader[T]) Reader[T]

// Default supplies a value when the variable is not set.
func Default[T any](dfl T) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.WithDefault(dfl)
	}
}

// IfMissing turns a missing variable into err.
func IfMissing[T any](err error) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.WithErrorIfMissing(err)
	}
}

// Fallback substitutes another Reader when the variable is not set.
func Fallback[T any](f Reader[T]) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.WithFallback(f)
	}
}

// Validate fails the Reader when f rejects its value.
func Validate[T any](f func(T) error) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.Map(func(val T) (T, error) {
			return val, f(val)
		})
	}
}

// Positive is a Validate option for numeric values.
func Positive[T ~int | ~int64 | ~float64]() Option[T] {
	return Validate(func(v T) error {
		if v <= 0 {
			return fmt.Errorf("%w: %v", ErrNotPositive, v)
		}

		return nil
	})
}
