package index

import (
	"strings"
	"unicode"
)

// tokenDelimiters defines characters that separate tokens
const tokenDelimiters = "/?&=.,;-_:"

// Tokenize splits a string into searchable tokens.
// Splits on whitespace and: / ? & = . , ; - _ :
// Lowercases all tokens, drops tokens < 2 chars.
func Tokenize(s string) []string {
	s = strings.ToLower(s)

	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(tokenDelimiters, r) || unicode.IsSpace(r)
	})

	result := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len(t) >= 2 {
			result = append(result, t)
		}
	}

	return result
}

// uniqueTokens tokenizes s and drops repeated tokens, keeping first occurrence order.
func uniqueTokens(s string) []string {
	tokens := Tokenize(s)
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
