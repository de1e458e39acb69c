package guess

import "wordsinwords/internal/words"

// PointsFor maps a word length to points. Everything from 7 letters up is
// worth a flat 5.
func PointsFor(length int) int {
	switch {
	case length < 4:
		return 0
	case length == 4:
		return 1
	case length == 5:
		return 2
	case length == 6:
		return 3
	default:
		return 5
	}
}

// Preview returns what guess would score if the server accepted it, or 0
// when it is too short or cannot be built from dailyWord's letters.
func Preview(guess, dailyWord string) int {
	guess = words.Normalize(guess)
	if len(guess) < MinLength || !LettersFit(guess, words.Normalize(dailyWord)) {
		return 0
	}
	return PointsFor(len(guess))
}
