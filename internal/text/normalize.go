// Package text provides case- and accent-insensitive normalization shared by
// the extraction, retrieval and ranking stages.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s and strips combining diacritical marks via canonical
// decomposition. Empty input yields an empty string. Idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	lowered := strings.ToLower(s)
	decomposed := norm.NFD.String(lowered)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ContainsWord reports whether the normalized text contains token as a
// standalone whitespace-delimited word.
func ContainsWord(text, token string) bool {
	return strings.Contains(" "+text+" ", " "+token+" ")
}

// RemoveWord removes every standalone occurrence of token from text,
// collapsing it to a single space.
func RemoveWord(text, token string) string {
	padded := " " + text + " "
	for strings.Contains(padded, " "+token+" ") {
		padded = strings.Replace(padded, " "+token+" ", " ", 1)
	}
	return strings.TrimSpace(padded)
}

// CollapseSpaces trims and squeezes runs of whitespace into single spaces.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CountOccurrences counts non-overlapping occurrences of term in text.
func CountOccurrences(text, term string) int {
	if term == "" {
		return 0
	}
	count := 0
	for idx := strings.Index(text, term); idx >= 0; {
		count++
		next := strings.Index(text[idx+len(term):], term)
		if next < 0 {
			break
		}
		idx += len(term) + next
	}
	return count
}
