package utils //nolint:revive // utils is an appropriate package name for utility functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type control struct{}

func TestIsNilish(t *testing.T) {
	t.Parallel()

	var (
		nilPtr   *control
		nilMap   map[string]int
		nilSlice []int
		nilFunc  func()
		nilIface interface{ Close() error }
	)

	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{name: "literal nil", value: nil, expected: true},
		{name: "nil pointer", value: nilPtr, expected: true},
		{name: "nil map", value: nilMap, expected: true},
		{name: "nil slice", value: nilSlice, expected: true},
		{name: "nil func", value: nilFunc, expected: true},
		{name: "nil interface", value: nilIface, expected: true},
		{name: "non-nil pointer", value: &control{}, expected: false},
		{name: "struct value", value: control{}, expected: false},
		{name: "zero int", value: 0, expected: false},
		{name: "empty string", value: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, IsNilish(tt.value))
		})
	}
}
