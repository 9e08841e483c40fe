package sanitizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// CleanName strips every rune that is not a word character (letter, number,
// underscore) or whitespace. Case and spacing are preserved. Non-string cells
// produce an empty name.
//
// Input is composed to NFC first so decomposed accents ("João") survive
// as the precomposed letter instead of losing their combining mark.
func CleanName(raw any) string {
	s, ok := raw.(string)
	if !ok {
		return ""
	}

	s = norm.NFC.String(s)

	var result strings.Builder
	result.Grow(len(s))

	for _, r := range s {
		if isWordRune(r) || unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
