// Package cli holds the interactive pieces of the controlset command: key
// selection, confirmation prompts and table banners.
package cli

import (
	"errors"
	"slices"
	"strings"

	"facette.io/natsort"
	"github.com/manifoldco/promptui"
)

// ErrNothingToSelect is returned by SelectKey when keys is empty.
var ErrNothingToSelect = errors.New("nothing to select")

// SortKeys returns a sorted copy of keys. With natural set, embedded numbers
// compare by value, so "slot2" sorts before "slot10".
func SortKeys(keys []string, natural bool) []string {
	out := slices.Clone(keys)

	if natural {
		natsort.Sort(out)
	} else {
		slices.Sort(out)
	}

	return out
}

// Selector picks one of keys, returning the chosen key.
type Selector func(label string, keys []string) (string, error)

// SelectKey asks the user to pick one of keys on the terminal. Typing
// filters the list by prefix.
func SelectKey(label string, keys []string) (string, error) {
	if len(keys) == 0 {
		return "", ErrNothingToSelect
	}

	sel := &promptui.Select{
		Label: label,
		Items: keys,
		Searcher: func(input string, index int) bool {
			return strings.HasPrefix(keys[index], input)
		},
	}

	_, value, err := sel.Run()
	if err != nil {
		return "", err
	}

	return value, nil
}
