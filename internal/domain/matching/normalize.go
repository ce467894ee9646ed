// Package matching implements the pure category/merchant auto-apply matcher.
// It scores a user's learned mappings against a freshly extracted transaction
// and applies the targets of mappings that clear the confidence threshold.
package matching

import (
	"strings"
	"unicode"
)

// Normalize produces the canonical matching key for a merchant or item name:
// lowercased, trimmed, punctuation stripped, interior whitespace collapsed.
// The same function is used when a mapping is stored and when it is matched,
// so stored and runtime keys are always comparable.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			// punctuation and symbols are stripped entirely
		}
	}

	return strings.TrimRight(b.String(), " ")
}
