package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes to NFD, drops combining marks, recomposes.
// Non-Latin scripts (CJK etc.) pass through unchanged.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stopwords excluded from match tokens. Generic lodging words carry no
// identity signal.
var stopwords = map[string]struct{}{
	"hotel": {}, "by": {}, "the": {}, "and": {}, "of": {}, "at": {}, "in": {},
	"a": {}, "an": {}, "resort": {}, "inn": {}, "apartments": {}, "apartment": {},
	"suites": {}, "suite": {}, "hostel": {}, "guesthouse": {},
}

// Normalize strips diacritics, lowercases, and collapses every run of
// non-letter/non-digit characters to a single space.
func Normalize(name string) string {
	s, _, err := transform.String(stripDiacritics, name)
	if err != nil {
		s = name
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		} else {
			space = true
		}
	}
	return b.String()
}

// TokenizeRaw splits normalized text into tokens of length > 1.
func TokenizeRaw(name string) []string {
	var out []string
	for _, t := range strings.Fields(Normalize(name)) {
		if len([]rune(t)) > 1 {
			out = append(out, t)
		}
	}
	return out
}

// TokenizeForMatch is TokenizeRaw minus the stopword set.
func TokenizeForMatch(name string) []string {
	var out []string
	for _, t := range TokenizeRaw(name) {
		if _, stop := stopwords[t]; !stop {
			out = append(out, t)
		}
	}
	return out
}

func tokenSet(tokens []string) map[string]struct{} {
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}
