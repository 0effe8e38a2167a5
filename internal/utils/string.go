package utils

import (
	"strings"
)

// NormalizeWord lowercases and trims a raw dictionary or query token.
func NormalizeWord(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsLowerAlpha reports whether s is non-empty and made only of a-z.
func IsLowerAlpha(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// IsValidWord checks if a query token can name a dictionary word.
// Returns false for empty strings, tokens longer than maxLen (when maxLen > 0)
// and anything containing characters other than ASCII letters.
func IsValidWord(s string, maxLen int) bool {
	if maxLen > 0 && len(s) > maxLen {
		return false
	}
	return IsLowerAlpha(NormalizeWord(s))
}

// IsComment reports whether a dictionary line should be skipped entirely.
func IsComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
