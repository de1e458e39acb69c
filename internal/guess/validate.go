// Package guess validates player guesses against the daily word and scores
// accepted ones.
package guess

import (
	"strings"

	"wordsinwords/internal/words"
)

// Reason is a stable machine-readable rejection code. The string values are
// part of the public API and must not change.
type Reason string

const (
	ReasonNone                   Reason = ""
	ReasonEmpty                  Reason = "empty"
	ReasonNonAlpha               Reason = "nonalpha"
	ReasonLength                 Reason = "length"
	ReasonDailyWordDisallowed    Reason = "daily_word_disallowed"
	ReasonLettersDontFit         Reason = "letters_dont_fit"
	ReasonNotInDictionary        Reason = "not_in_dictionary"
	ReasonPluralRequiresSingular Reason = "plural_requires_singular"
	ReasonServerException        Reason = "server_exception"
)

// MinLength is the shortest acceptable guess.
const MinLength = 4

// Reasons lists every rejection code in check order, followed by
// server_exception.
var Reasons = []Reason{
	ReasonEmpty,
	ReasonNonAlpha,
	ReasonLength,
	ReasonDailyWordDisallowed,
	ReasonLettersDontFit,
	ReasonNotInDictionary,
	ReasonPluralRequiresSingular,
	ReasonServerException,
}

var messages = map[Reason]string{
	ReasonEmpty:                  "Type a word first.",
	ReasonNonAlpha:               "Only letters are allowed.",
	ReasonLength:                 "That word is not a valid length.",
	ReasonDailyWordDisallowed:    "You can't use today's full word.",
	ReasonLettersDontFit:         "That word uses letters not available in today's word.",
	ReasonNotInDictionary:        "That word isn't in the dictionary.",
	ReasonPluralRequiresSingular: "Plural words are only allowed if the singular exists.",
	ReasonServerException:        "Something went wrong checking that word. Try again.",
}

// Message returns the player-facing text for r, or "" for an accepted guess.
func (r Reason) Message() string {
	if r == ReasonNone {
		return ""
	}
	if msg, ok := messages[r]; ok {
		return msg
	}
	return "Invalid word."
}

// Dictionary is the membership oracle a guess is checked against.
type Dictionary interface {
	Contains(word string) bool
}

// Verdict is the result of validating one guess.
type Verdict struct {
	Valid  bool   `json:"valid"`
	Reason Reason `json:"reason,omitempty"`
}

func reject(r Reason) Verdict {
	return Verdict{Reason: r}
}

// Validate checks guess against dailyWord and dict. Checks run in a fixed
// order and the first failure decides the reason.
func Validate(guess, dailyWord string, dict Dictionary) Verdict {
	guess = words.Normalize(guess)
	dailyWord = words.Normalize(dailyWord)

	if guess == "" {
		return reject(ReasonEmpty)
	}
	if !words.IsAlpha(guess) {
		return reject(ReasonNonAlpha)
	}
	if len(guess) < MinLength || len(guess) > len(dailyWord) {
		return reject(ReasonLength)
	}
	if guess == dailyWord {
		return reject(ReasonDailyWordDisallowed)
	}
	if !LettersFit(guess, dailyWord) {
		return reject(ReasonLettersDontFit)
	}
	if !dict.Contains(guess) {
		return reject(ReasonNotInDictionary)
	}
	// Four-letter words ending in s are exempt.
	if len(guess) > MinLength && strings.HasSuffix(guess, "s") && !dict.Contains(strings.TrimSuffix(guess, "s")) {
		return reject(ReasonPluralRequiresSingular)
	}
	return Verdict{Valid: true}
}

// LettersFit reports whether every letter of guess is available in bank at
// least as many times as guess uses it. Order is irrelevant.
func LettersFit(guess, bank string) bool {
	var avail [26]int
	for i := 0; i < len(bank); i++ {
		if c := bank[i]; c >= 'a' && c <= 'z' {
			avail[c-'a']++
		}
	}
	for i := 0; i < len(guess); i++ {
		c := guess[i]
		if c < 'a' || c > 'z' {
			return false
		}
		avail[c-'a']--
		if avail[c-'a'] < 0 {
			return false
		}
	}
	return true
}
