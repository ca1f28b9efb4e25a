package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinTokenLength is the shortest token, in runes, kept by Tokenize.
const MinTokenLength = 2

// Tokenize lowercases text and splits it on every rune that is not a letter
// or a digit. Tokens shorter than MinTokenLength runes are discarded, so
// "a" and "I" never reach the vocabulary.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= MinTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
