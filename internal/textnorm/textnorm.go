// Package textnorm canonicalizes free-text symptom descriptions so that keyword
// and phrase matching is insensitive to case, punctuation and spacing.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text, folds compatibility characters, turns punctuation
// into spaces and collapses whitespace. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(norm.NFKC.String(text))
	text = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, text)
	return strings.Join(strings.Fields(text), " ")
}

// Tokens splits the normalized text on whitespace.
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}

// TokenSet returns the distinct normalized tokens of text.
func TokenSet(text string) map[string]struct{} {
	toks := Tokens(text)
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}
