package utils

import "github.com/charmbracelet/x/ansi"

// Truncate shortens s to maxLen terminal cells and appends "..." when it
// was cut. Escape sequences and wide runes are measured by display width.
func Truncate(s string, maxLen int) string {
	if ansi.StringWidth(s) <= maxLen {
		return s
	}
	return ansi.Truncate(s, maxLen, "") + "..."
}
