// Package textnorm builds comparison keys for labels so that two strings that
// differ only in case, accents or surrounding whitespace compare as equal.
package textnorm

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the comparison key for s: lower-cased, with combining
// marks removed ("Pizarrón" -> "pizarron") and surrounding whitespace trimmed.
// The key is for comparison only and should never be displayed.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	// transform.String is not safe for concurrent use with a shared
	// transformer, so each call builds its own chain.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.TrimSpace(out)
}

// Equal reports whether a and b share the same comparison key.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// NormalizeAll returns the comparison keys of ss in order.
func NormalizeAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = Normalize(s)
	}
	return out
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Spanish)
)

// Compare orders two labels by their comparison keys using Spanish collation.
// Keys the collator considers equal fall back to byte order so that sorting is
// deterministic.
func Compare(a, b string) int {
	ka, kb := Normalize(a), Normalize(b)

	collatorMu.Lock()
	c := collator.CompareString(ka, kb)
	collatorMu.Unlock()

	if c != 0 {
		return c
	}
	return strings.Compare(ka, kb)
}
