package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"wordsinwords/internal/guess"
	"wordsinwords/internal/types"
	"wordsinwords/internal/words"
)

const keyPrefix = "wordsinwords:"

// Store is the key-value contract used for persistence. Get reports absence
// with ok == false.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Snapshot is a copy of a player's state for one game day.
type Snapshot struct {
	Day     types.DayState
	Goal    int
	Streak  types.Streak
	History []types.DaySummary
}

// Result describes what Submit did with a guess.
type Result struct {
	Outcome       types.GuessOutcome
	Recorded      bool
	Duplicate     bool
	JustCompleted bool
	Snapshot      Snapshot
}

type player struct {
	mu sync.Mutex
	// evicted is set by Sweep once the entry has left the map.
	evicted bool
	// loaded and daySynced record a successful store read. Until then the
	// matching record is kept in memory only and never written back.
	loaded    bool
	daySynced bool
	profile   types.Profile
	day       *types.DayState
	lastSeen  time.Time
}

// Manager owns in-memory player state and serializes mutations per player.
type Manager struct {
	store Store
	goal  int
	now   func() time.Time

	mu      sync.Mutex
	players map[string]*player
}

// Option configures a Manager.
type Option func(*Manager)

// WithGoal sets the daily goal. Non-positive values are ignored.
func WithGoal(goal int) Option {
	return func(m *Manager) {
		if goal > 0 {
			m.goal = goal
		}
	}
}

// WithClock overrides the clock used for idle tracking.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager returns a Manager persisting through store. A nil store keeps
// everything in memory.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		goal:    DefaultGoal,
		now:     time.Now,
		players: make(map[string]*player),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Goal returns the daily goal.
func (m *Manager) Goal() int {
	return m.goal
}

func dayKey(playerID, key string) string {
	return fmt.Sprintf("%s%s:day:%s", keyPrefix, playerID, key)
}

func profileKey(playerID string) string {
	return fmt.Sprintf("%s%s:profile", keyPrefix, playerID)
}

func (m *Manager) player(playerID string) *player {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.players[playerID]
	if !ok {
		p = &player{}
		m.players[playerID] = p
	}
	return p
}

// acquire returns playerID's entry with its lock held, retrying when Sweep
// evicted the entry between lookup and locking.
func (m *Manager) acquire(playerID string) *player {
	for {
		p := m.player(playerID)
		p.mu.Lock()
		if !p.evicted {
			return p
		}
		p.mu.Unlock()
	}
}

// Submit records word with its verdict on key for playerID. Empty words and
// words already guessed that day are not recorded.
func (m *Manager) Submit(ctx context.Context, playerID, key, word string, verdict guess.Verdict) Result {
	word = words.Normalize(word)
	p := m.acquire(playerID)
	defer p.mu.Unlock()

	m.activate(ctx, p, playerID, key)

	if word == "" {
		return Result{Snapshot: m.snapshot(p)}
	}
	if hasWord(p.day, word) {
		logrus.Debugf("player %s repeated %q on %s, ignoring", playerID, word, key)
		return Result{Duplicate: true, Snapshot: m.snapshot(p)}
	}

	outcome := types.GuessOutcome{Word: word, Valid: verdict.Valid}
	if verdict.Valid {
		outcome.Points = guess.PointsFor(len(word))
	} else {
		outcome.Reason = string(verdict.Reason)
	}
	p.day.Guesses = append(p.day.Guesses, outcome)
	p.day.TotalPoints += outcome.Points

	justCompleted := false
	if !p.day.Completed && p.day.TotalPoints >= m.goal {
		p.day.Completed = true
		p.profile.Streak = completeStreak(p.profile.Streak, key)
		justCompleted = true
		logrus.Infof("player %s completed %s with %d points (streak %d, best %d)",
			playerID, key, p.day.TotalPoints, p.profile.Streak.Current, p.profile.Streak.Best)
	}

	m.saveDay(ctx, p, playerID)
	if justCompleted {
		m.saveProfile(ctx, p, playerID)
	}

	return Result{
		Outcome:       outcome,
		Recorded:      true,
		JustCompleted: justCompleted,
		Snapshot:      m.snapshot(p),
	}
}

// Snapshot returns playerID's state for key.
func (m *Manager) Snapshot(ctx context.Context, playerID, key string) Snapshot {
	p := m.acquire(playerID)
	defer p.mu.Unlock()
	m.activate(ctx, p, playerID, key)
	return m.snapshot(p)
}

// Sweep drops in-memory players idle for longer than maxIdle. Persisted
// state is untouched and is reloaded on next use.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, p := range m.players {
		if !p.mu.TryLock() {
			continue
		}
		if p.lastSeen.Before(cutoff) {
			p.evicted = true
			delete(m.players, id)
			removed++
		}
		p.mu.Unlock()
	}
	return removed
}

// Players returns the number of players held in memory.
func (m *Manager) Players() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players)
}

// activate makes key the player's current day. When the player's previous
// day differs, its summary is folded into the history first. p.mu is held.
func (m *Manager) activate(ctx context.Context, p *player, playerID, key string) {
	p.lastSeen = m.now()
	if !p.loaded {
		m.loadProfile(ctx, p, playerID)
	}
	current := p.day != nil && p.day.Key == key
	if current && !p.daySynced {
		m.resyncDay(ctx, p, playerID)
	}
	if current && p.profile.ActiveKey == key {
		return
	}

	if prevKey := p.profile.ActiveKey; prevKey != "" && prevKey != key {
		var prev types.DayState
		var err error
		if p.day != nil && p.day.Key == prevKey {
			prev = *p.day
		} else {
			prev, err = m.loadDay(ctx, playerID, prevKey)
		}
		if err == nil && len(prev.Guesses) > 0 {
			p.profile.History = upsertHistory(p.profile.History, summarize(prev), HistorySize)
			logrus.Infof("player %s rolled over from %s to %s", playerID, prevKey, key)
		}
	}

	if !current {
		day, err := m.loadDay(ctx, playerID, key)
		p.day = &day
		p.daySynced = err == nil
	}
	if p.profile.ActiveKey != key {
		p.profile.ActiveKey = key
		m.saveProfile(ctx, p, playerID)
	}
}

// loadProfile reads the stored profile. On a read error the in-memory
// profile is kept and the read is retried on the next call. A completion
// recorded while the store was unreadable is applied to the stored streak.
func (m *Manager) loadProfile(ctx context.Context, p *player, playerID string) {
	profile, err := load[types.Profile](ctx, m.store, profileKey(playerID))
	if err != nil {
		return
	}
	p.loaded = true
	if p.day != nil && p.day.Completed && p.day.Key > profile.Streak.LastCompletedKey {
		profile.Streak = completeStreak(profile.Streak, p.day.Key)
		p.profile = profile
		m.saveProfile(ctx, p, playerID)
		return
	}
	p.profile = profile
}

// resyncDay merges the stored copy of the current day into the in-memory one
// after an earlier read failed. Stored guesses come first.
func (m *Manager) resyncDay(ctx context.Context, p *player, playerID string) {
	stored, err := m.loadDay(ctx, playerID, p.day.Key)
	if err != nil {
		return
	}
	for _, g := range p.day.Guesses {
		if !hasWord(&stored, g.Word) {
			stored.Guesses = append(stored.Guesses, g)
		}
	}
	stored.TotalPoints = totalPoints(stored.Guesses)
	stored.Completed = stored.Completed || p.day.Completed
	p.day = &stored
	p.daySynced = true
	m.saveDay(ctx, p, playerID)
}

// loadDay returns the stored day for key, or a fresh one when it is absent
// or corrupt. The error is non-nil only when the store could not be read.
func (m *Manager) loadDay(ctx context.Context, playerID, key string) (types.DayState, error) {
	fresh := types.DayState{Key: key, Guesses: []types.GuessOutcome{}}
	day, err := load[types.DayState](ctx, m.store, dayKey(playerID, key))
	if err != nil {
		return fresh, err
	}
	if day.Key != key {
		return fresh, nil
	}
	if day.Guesses == nil {
		day.Guesses = []types.GuessOutcome{}
	}
	day.TotalPoints = totalPoints(day.Guesses)
	return day, nil
}

// load decodes the value at key. Absent and corrupt values yield the zero
// value; only read errors are returned.
func load[T any](ctx context.Context, store Store, key string) (T, error) {
	var zero T
	if store == nil {
		return zero, nil
	}
	data, ok, err := store.Get(ctx, key)
	if err != nil {
		logrus.WithError(err).Warnf("failed to load %s, keeping state in memory", key)
		return zero, err
	}
	if !ok {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logrus.WithError(err).Warnf("corrupt state at %s, ignoring", key)
		return zero, nil
	}
	return v, nil
}

func (m *Manager) saveDay(ctx context.Context, p *player, playerID string) {
	if !p.daySynced {
		return
	}
	m.save(ctx, dayKey(playerID, p.day.Key), p.day)
}

func (m *Manager) saveProfile(ctx context.Context, p *player, playerID string) {
	if !p.loaded {
		return
	}
	m.save(ctx, profileKey(playerID), p.profile)
}

// save is best effort: failures are logged and play continues in memory.
func (m *Manager) save(ctx context.Context, key string, v any) {
	if m.store == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		logrus.WithError(err).Warnf("failed to marshal %s", key)
		return
	}
	if err := m.store.Set(ctx, key, data); err != nil {
		logrus.WithError(err).Warnf("failed to save %s", key)
	}
}

func (m *Manager) snapshot(p *player) Snapshot {
	return Snapshot{
		Day:     cloneDay(*p.day),
		Goal:    m.goal,
		Streak:  p.profile.Streak,
		History: append([]types.DaySummary{}, p.profile.History...),
	}
}
