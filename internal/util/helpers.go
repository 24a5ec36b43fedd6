package util

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Clamp constrains a value to a range.
func Clamp[T cmp.Ordered](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Truncate shortens s to width terminal cells, appending tail when cut.
func Truncate(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, tail)
}

// SingleLine folds newlines so a value fits one table row.
func SingleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
