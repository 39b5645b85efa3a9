package security

import (
	"strings"
	"unicode"
)

// SanitizeString trims the input and drops control characters other than newline and tab.
// PostgreSQL rejects NUL bytes in text columns, so free text must pass through here before storage.
func SanitizeString(input string) string {
	return strings.TrimSpace(removeControlCharacters(input))
}

// SanitizeFreeText sanitizes operator-supplied text and caps it at maxLength runes.
func SanitizeFreeText(input string, maxLength int) string {
	return TruncateString(SanitizeString(input), maxLength)
}

// TruncateString cuts s to at most maxLength runes.
func TruncateString(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength])
}

func removeControlCharacters(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
