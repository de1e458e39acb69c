// Package daykey computes game-day identifiers. A game day starts at 20:00
// local time, so the key for an instant is the local date 20 hours earlier.
package daykey

import (
	"fmt"
	"time"
)

const (
	// RolloverHour is the local hour at which a new game day begins.
	RolloverHour = 20
	// Layout is the key format.
	Layout = "2006-01-02"
)

// Key returns the game-day key for t, evaluated in t's location.
func Key(t time.Time) string {
	y, m, d := t.Date()
	if t.Hour() < RolloverHour {
		// Before 20:00 we are still in the epoch that began yesterday evening.
		return time.Date(y, m, d-1, 0, 0, 0, 0, time.UTC).Format(Layout)
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(Layout)
}

// Parse parses a key into a UTC midnight time.
func Parse(key string) (time.Time, error) {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid game day key %q: %w", key, err)
	}
	return t, nil
}

// Valid reports whether key is a well-formed game-day key.
func Valid(key string) bool {
	_, err := Parse(key)
	return err == nil
}

// Previous returns the key for the calendar day before key.
func Previous(key string) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(Layout), nil
}

// NextRollover returns the next local 20:00:00 in t's location. When t is
// already at or past 20:00 the following day's rollover is returned.
func NextRollover(t time.Time) time.Time {
	y, m, d := t.Date()
	next := time.Date(y, m, d, RolloverHour, 0, 0, 0, t.Location())
	if !t.Before(next) {
		next = time.Date(y, m, d+1, RolloverHour, 0, 0, 0, t.Location())
	}
	return next
}

// Calendar binds key computation to a timezone and clock.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar returns a Calendar for loc. A nil loc means time.Local and a
// nil now means time.Now.
func NewCalendar(loc *time.Location, now func() time.Time) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Calendar{loc: loc, now: now}
}

// Location returns the calendar's timezone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in the calendar's timezone.
func (c *Calendar) Now() time.Time {
	return c.now().In(c.loc)
}

// Key returns the game-day key for t in the calendar's timezone.
func (c *Calendar) Key(t time.Time) string {
	return Key(t.In(c.loc))
}

// Today returns the current game-day key.
func (c *Calendar) Today() string {
	return Key(c.Now())
}

// NextRollover returns the next rollover instant after now.
func (c *Calendar) NextRollover() time.Time {
	return NextRollover(c.Now())
}

// Until returns the time remaining in the current game day.
func (c *Calendar) Until() time.Duration {
	now := c.Now()
	return NextRollover(now).Sub(now)
}
