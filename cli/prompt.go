package cli

import (
	"errors"
	"io"
	"os"

	"github.com/manifoldco/promptui"
)

// Confirmer asks a yes/no question.
type Confirmer func(label string) (bool, error)

// PromptConfirm asks a yes/no question on the terminal. Declining is not an
// error.
func PromptConfirm(label string) (bool, error) {
	return confirm(label, os.Stdin, os.Stdout)
}

func confirm(label string, in io.ReadCloser, out io.WriteCloser) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     in,
		Stdout:    out,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
