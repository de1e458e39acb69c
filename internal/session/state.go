// Package session tracks each player's guesses, score, completion, streak and
// recent history per game day, persisting through a key-value store.
package session

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"wordsinwords/internal/daykey"
	"wordsinwords/internal/types"
)

const (
	// DefaultGoal is the score that completes a game day.
	DefaultGoal = 20
	// HistorySize is how many day summaries are kept per player.
	HistorySize = 7
)

// hasWord reports whether word was already guessed on day.
func hasWord(day *types.DayState, word string) bool {
	return slices.ContainsFunc(day.Guesses, func(g types.GuessOutcome) bool {
		return g.Word == word
	})
}

// summarize builds the history entry for day.
func summarize(day types.DayState) types.DaySummary {
	return types.DaySummary{
		Key:          day.Key,
		TotalPoints:  day.TotalPoints,
		ValidCount:   lo.CountBy(day.Guesses, func(g types.GuessOutcome) bool { return g.Valid }),
		TotalGuesses: len(day.Guesses),
		Completed:    day.Completed,
	}
}

// totalPoints sums points over valid guesses.
func totalPoints(guesses []types.GuessOutcome) int {
	return lo.SumBy(guesses, func(g types.GuessOutcome) int {
		if !g.Valid {
			return 0
		}
		return g.Points
	})
}

// upsertHistory replaces or inserts s, keeps entries most recent first and
// drops anything beyond limit.
func upsertHistory(history []types.DaySummary, s types.DaySummary, limit int) []types.DaySummary {
	out := lo.Filter(history, func(h types.DaySummary, _ int) bool {
		return h.Key != s.Key
	})
	out = append(out, s)
	slices.SortFunc(out, func(a, b types.DaySummary) int {
		return strings.Compare(b.Key, a.Key)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// completeStreak updates streak for a completion on key. Completing the same
// key twice is a no-op.
func completeStreak(streak types.Streak, key string) types.Streak {
	if streak.LastCompletedKey == key {
		return streak
	}
	prev, err := daykey.Previous(key)
	if err == nil && streak.LastCompletedKey != "" && streak.LastCompletedKey == prev {
		streak.Current++
	} else {
		streak.Current = 1
	}
	streak.Best = max(streak.Best, streak.Current)
	streak.LastCompletedKey = key
	return streak
}

func cloneDay(day types.DayState) types.DayState {
	day.Guesses = slices.Clone(day.Guesses)
	if day.Guesses == nil {
		day.Guesses = []types.GuessOutcome{}
	}
	return day
}
