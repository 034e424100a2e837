package model

import "strings"

// NormalizeTerm canonicalizes a term or alias for lookup: surrounding and
// internal whitespace runs collapse to a single space, and ASCII letters fold
// to lower case. Non-ASCII text is left exact; Chinese has no case to fold.
func NormalizeTerm(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return FoldASCII(s)
}

// FoldASCII lowercases ASCII letters only, leaving every other rune intact.
func FoldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
