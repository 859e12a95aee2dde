package util

import (
	"strings"
	"unicode/utf8"
)

// SanitizeInput strips control characters and truncates to maxLen bytes. It
// is applied to every user-supplied text blob before it is embedded in a
// provider prompt.
func SanitizeInput(s string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return Truncate(b.String(), maxLen)
}

// Truncate caps s at max bytes without splitting a multi-byte rune.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
