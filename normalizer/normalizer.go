// Package normalizer folds user-typed substance names into a comparable ASCII-ish form.
package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that compatibility decomposition leaves intact.
var letterFolds = strings.NewReplacer(
	"ñ", "n",
	"ø", "o",
	"đ", "d",
	"ł", "l",
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
)

// Normalize lower-cases text, strips diacritics and folds locale-specific letters.
// It is pure and idempotent.
func Normalize(text string) string {
	lowered := strings.ToLower(text)

	// transform.Chain is stateful, build a fresh one per call
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.M)), norm.NFC)
	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		stripped = lowered
	}

	// compatibility decomposition can surface upper-case letters (ℌ -> H)
	// spacing accents (´ ¨ ¸ ˜) decompose to a space plus a mark, so trim last
	return strings.TrimSpace(letterFolds.Replace(strings.ToLower(stripped)))
}
