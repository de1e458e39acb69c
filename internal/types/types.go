package types

import "time"

// GuessOutcome is one recorded guess. Points are zero for rejected guesses.
// Message is filled in on responses only and is not persisted.
type GuessOutcome struct {
	Word    string `json:"word"`
	Valid   bool   `json:"valid"`
	Points  int    `json:"points"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// DayState is a player's progress on one game day.
type DayState struct {
	Key         string         `json:"key"`
	Guesses     []GuessOutcome `json:"guesses"`
	TotalPoints int            `json:"totalPoints"`
	Completed   bool           `json:"completed"`
}

// DaySummary is the compact per-day entry kept in the history.
type DaySummary struct {
	Key          string `json:"key"`
	TotalPoints  int    `json:"totalPoints"`
	ValidCount   int    `json:"validCount"`
	TotalGuesses int    `json:"totalGuesses"`
	Completed    bool   `json:"completed"`
}

// Streak counts consecutive completed game days.
type Streak struct {
	Current          int    `json:"current"`
	Best             int    `json:"best"`
	LastCompletedKey string `json:"lastCompletedKey,omitempty"`
}

// Profile is the per-player record that spans game days.
type Profile struct {
	Streak    Streak       `json:"streak"`
	History   []DaySummary `json:"history"`
	ActiveKey string       `json:"activeKey,omitempty"`
}

// CheckRequest is the body of POST /api/check.
type CheckRequest struct {
	Guess     string `json:"guess"`
	DailyWord string `json:"dailyWord"`
}

// CheckResponse is the reply of POST /api/check. Points is what the guess
// is worth by length whenever its letters fit, valid or not. Message is the
// player-facing text for Reason.
type CheckResponse struct {
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
	Points  int    `json:"points,omitempty"`
}

// DailyResponse is the reply of GET /api/daily.
type DailyResponse struct {
	Key          string    `json:"key"`
	Word         string    `json:"word"`
	NextRollover time.Time `json:"nextRollover"`
}

// GuessRequest is the body of POST /api/guess. An empty Key means today.
type GuessRequest struct {
	Guess string `json:"guess"`
	Key   string `json:"key"`
}

// SessionResponse describes a player's state for one game day.
type SessionResponse struct {
	Day     DayState     `json:"day"`
	Goal    int          `json:"goal"`
	Streak  Streak       `json:"streak"`
	History []DaySummary `json:"history"`
}

// GuessResponse is the reply of POST /api/guess.
type GuessResponse struct {
	Outcome       GuessOutcome    `json:"outcome"`
	Duplicate     bool            `json:"duplicate"`
	JustCompleted bool            `json:"justCompleted"`
	Session       SessionResponse `json:"session"`
}
