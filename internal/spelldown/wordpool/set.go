package wordpool

import (
	"strings"
	"unicode"
)

// Key is the identity of a word for no-repeat bookkeeping: lower case letters only, so
// "Cat" and "cat " count as the same word.
func Key(word string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, word)
}

// Set holds the keys of words already presented.
type Set map[string]struct{}

func NewSet() Set {
	return Set{}
}

func (s Set) Has(word string) bool {
	_, ok := s[Key(word)]
	return ok
}

func (s Set) Add(word string) {
	s[Key(word)] = struct{}{}
}

func (s Set) Len() int {
	return len(s)
}
