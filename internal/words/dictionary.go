package words

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// MinDictionaryLength is the shortest word kept in the dictionary.
const MinDictionaryLength = 4

// ErrEmptyDictionary is returned when a word list has no usable entries.
var ErrEmptyDictionary = errors.New("dictionary has no usable words")

// Dictionary is a read-only set of lowercase words.
type Dictionary struct {
	set map[string]struct{}
}

// NewDictionary builds a dictionary from lines, keeping normalized
// alphabetic tokens of at least MinDictionaryLength letters.
func NewDictionary(lines []string) (*Dictionary, error) {
	set := make(map[string]struct{}, len(lines))
	lo.ForEach(lines, func(line string, _ int) {
		w := Normalize(line)
		if len(w) >= MinDictionaryLength && IsAlpha(w) {
			set[w] = struct{}{}
		}
	})
	if len(set) == 0 {
		return nil, ErrEmptyDictionary
	}
	return &Dictionary{set: set}, nil
}

// LoadDictionaryFile reads the dictionary at path.
func LoadDictionaryFile(path string) (*Dictionary, error) {
	lines, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	dict, err := NewDictionary(lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dict, nil
}

// Contains reports whether word is in the dictionary. Callers normalize first.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.set[word]
	return ok
}

// Len returns the number of words.
func (d *Dictionary) Len() int {
	return len(d.set)
}
