// Package grading judges a spoken, letter-by-letter transcript against the target word.
package grading

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bloops-games/spelldown/internal/spelldown/wordpool"
)

type Verdict uint8

const (
	// VerdictCorrect means the joined letters equal the target.
	VerdictCorrect Verdict = iota + 1
	// VerdictIncorrect means well-formed letters that spell something else. Consumes an attempt.
	VerdictIncorrect
	// VerdictWholeWord means the player said the word instead of spelling it.
	VerdictWholeWord
	// VerdictNotLetters means at least one token is not a single letter.
	VerdictNotLetters
)

func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictIncorrect:
		return "incorrect"
	case VerdictWholeWord:
		return "whole_word"
	case VerdictNotLetters:
		return "not_letters"
	default:
		return "unknown"
	}
}

// Malformed reports whether the transcript was rejected before comparison. Malformed
// transcripts never consume an attempt.
func (v Verdict) Malformed() bool {
	return v == VerdictWholeWord || v == VerdictNotLetters
}

// Normalize lower-cases the target and strips everything but letters.
func Normalize(word string) string {
	return wordpool.Key(word)
}

// Tokenize splits a transcript on whitespace into lower-case tokens.
func Tokenize(transcript string) []string {
	fields := strings.Fields(transcript)
	for i := range fields {
		fields[i] = strings.ToLower(fields[i])
	}
	return fields
}

// Grade applies the rules in order: whole word, single letters, comparison.
func Grade(transcript, target string) Verdict {
	tokens := Tokenize(transcript)
	want := Normalize(target)

	// a one letter word spoken as its letter is a valid spelling
	if len(tokens) == 1 && utf8.RuneCountInString(want) > 1 && tokens[0] == want {
		return VerdictWholeWord
	}

	if len(tokens) == 0 {
		return VerdictNotLetters
	}

	for _, tok := range tokens {
		if !isLetter(tok) {
			return VerdictNotLetters
		}
	}

	if strings.Join(tokens, "") == want {
		return VerdictCorrect
	}

	return VerdictIncorrect
}

func isLetter(tok string) bool {
	r, size := utf8.DecodeRuneInString(tok)
	return size == len(tok) && r != utf8.RuneError && unicode.IsLetter(r)
}

// Letters returns the upper-case letters of word in order, for reveals.
func Letters(word string) []string {
	norm := Normalize(word)
	out := make([]string, 0, len(norm))
	for _, r := range norm {
		out = append(out, string(unicode.ToUpper(r)))
	}
	return out
}
