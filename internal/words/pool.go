package words

import (
	"slices"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// DefaultPoolWords is used when the daily pool source is unusable.
var DefaultPoolWords = []string{"notebooks", "watermelon", "triangle"}

// Band restricts which words are eligible as a daily word.
type Band struct {
	MinLength   int
	MaxLength   int
	MinDistinct int
}

// DefaultBand is the daily-word band: 8 to 11 letters, at least 6 distinct.
var DefaultBand = Band{MinLength: 8, MaxLength: 11, MinDistinct: 6}

// Allows reports whether a normalized word falls inside the band.
func (b Band) Allows(word string) bool {
	if b.MinLength > 0 && len(word) < b.MinLength {
		return false
	}
	if b.MaxLength > 0 && len(word) > b.MaxLength {
		return false
	}
	return DistinctLetters(word) >= b.MinDistinct
}

// Pool is an immutable ordered list of candidate daily words.
type Pool struct {
	words    []string
	fallback bool
}

// NewPool builds a pool from lines: normalized, alphabetic, inside band and
// deduplicated keeping the first occurrence. It returns nil when nothing
// survives filtering.
func NewPool(lines []string, band Band) *Pool {
	normalized := lo.Map(lines, func(line string, _ int) string {
		return Normalize(line)
	})
	kept := lo.Uniq(lo.Filter(normalized, func(w string, _ int) bool {
		return IsAlpha(w) && band.Allows(w)
	}))
	if len(kept) == 0 {
		return nil
	}
	return &Pool{words: kept}
}

// DefaultPool returns the fixed fallback pool.
func DefaultPool() *Pool {
	return &Pool{words: slices.Clone(DefaultPoolWords), fallback: true}
}

// LoadPoolFile reads the pool at path. An unreadable or empty source falls
// back to DefaultPool.
func LoadPoolFile(path string, band Band) *Pool {
	lines, err := ReadFile(path)
	if err != nil {
		logrus.WithError(err).Warnf("daily pool %s unreadable, using %d fallback words", path, len(DefaultPoolWords))
		return DefaultPool()
	}
	pool := NewPool(lines, band)
	if pool == nil {
		logrus.Warnf("daily pool %s has no eligible words, using %d fallback words", path, len(DefaultPoolWords))
		return DefaultPool()
	}
	logrus.Infof("loaded %d daily pool words from %s", pool.Len(), path)
	return pool
}

// Len returns the number of words in the pool.
func (p *Pool) Len() int {
	return len(p.words)
}

// At returns the word at index i.
func (p *Pool) At(i int) string {
	return p.words[i]
}

// Words returns a copy of the pool contents.
func (p *Pool) Words() []string {
	return slices.Clone(p.words)
}

// Fallback reports whether the pool is the built-in default.
func (p *Pool) Fallback() bool {
	return p.fallback
}
