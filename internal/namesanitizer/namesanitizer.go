// Package namesanitizer turns arbitrary Unicode person names into the
// plain ASCII form accepted by the remote validation service: Latin letters
// separated by single spaces.
package namesanitizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDisallowed(r rune) bool {
	return !isASCIILetter(r) && !unicode.IsSpace(r)
}

func newTransformer() transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(isDisallowed)),
	)
}

// Sanitize strips diacritics and every character that is not an ASCII
// letter or whitespace, then collapses whitespace runs into single spaces
// and trims the result. "María López" becomes "Maria Lopez" and
// "Luc O'Connor" becomes "Luc OConnor".
func Sanitize(name string) string {
	stripped, _, err := transform.String(newTransformer(), name)
	if err != nil {
		// Fall back to dropping the offending runes without decomposition.
		stripped = strings.Map(func(r rune) rune {
			if isDisallowed(r) {
				return -1
			}
			return r
		}, name)
	}

	return strings.Join(strings.Fields(stripped), " ")
}
