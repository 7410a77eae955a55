package fields

import (
	"strings"
	"unicode"
)

// Normalize collapses every run of whitespace in text into a single space.
// A nil text yields nil.
func Normalize(text *string) *string {
	if text == nil {
		return nil
	}
	s := NormalizeString(*text)
	return &s
}

// NormalizeString is Normalize for content that is known to be present.
// Leading and trailing runs collapse to one space; nothing is trimmed.
func NormalizeString(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) || r == '\uFEFF' {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
