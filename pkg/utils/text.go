package utils

import "unicode/utf8"

// Ellipsis is appended to display text cut by TruncateText.
const Ellipsis = "..."

// TruncateText shortens text to at most max runes followed by an ellipsis. It
// is a display helper only; stored and exported text is never truncated.
func TruncateText(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + Ellipsis
}
