package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/amp-labs/amp-controls/envutil"
	"github.com/amp-labs/amp-controls/lazy"
)

const (
	boxTopLeft     = "╒"
	boxTopRight    = "╕"
	boxBottomLeft  = "└"
	boxBottomRight = "┘"
	boxSide        = "│"
	boxTop         = "═"
	boxBottom      = "─"
	ellipsis       = "…"

	// DefaultWidth is used when the caller has no better idea.
	DefaultWidth = 80

	borderWidth = 2
)

var suppressBanner = lazy.New(func() bool { //nolint:gochecknoglobals
	return envutil.Bool("CONTROLSET_NO_BANNER", envutil.Default(false)).ValueOrElse(false)
})

// Banner draws text centered in a box width runes wide. Lines that do not fit
// are truncated with an ellipsis. With CONTROLSET_NO_BANNER set, the text is
// returned unboxed.
func Banner(text string, width int) string {
	if suppressBanner.Get() {
		return text + "\n"
	}

	inner := width - borderWidth
	if inner <= 0 {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	parts := make([]string, 0, len(lines)+borderWidth)

	parts = append(parts, boxTopLeft+strings.Repeat(boxTop, inner)+boxTopRight)

	for _, line := range lines {
		parts = append(parts, boxSide+center(line, inner)+boxSide)
	}

	parts = append(parts, boxBottomLeft+strings.Repeat(boxBottom, inner)+boxBottomRight)

	return strings.Join(parts, "\n") + "\n"
}

func center(text string, width int) string {
	length := utf8.RuneCountInString(text)

	if length > width {
		runes := []rune(text)
		text = string(runes[:width-1]) + ellipsis
		length = width
	}

	left := (width - length) / 2 //nolint:mnd

	return fmt.Sprintf("%s%s%s", strings.Repeat(" ", left), text, strings.Repeat(" ", width-length-left))
}
