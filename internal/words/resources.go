package words

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Resources lazily loads the daily pool and dictionary once and shares them
// read-only for the process lifetime.
type Resources struct {
	pool       func() *Pool
	dictionary func() (*Dictionary, error)
}

// NewResources returns a holder that reads poolPath and dictPath on first use.
func NewResources(poolPath, dictPath string, band Band) *Resources {
	return &Resources{
		pool: sync.OnceValue(func() *Pool {
			return LoadPoolFile(poolPath, band)
		}),
		dictionary: sync.OnceValues(func() (*Dictionary, error) {
			dict, err := LoadDictionaryFile(dictPath)
			if err != nil {
				return nil, err
			}
			logrus.Infof("loaded %d dictionary words from %s", dict.Len(), dictPath)
			return dict, nil
		}),
	}
}

// StaticResources wraps already-built values, mostly for tests.
func StaticResources(pool *Pool, dict *Dictionary) *Resources {
	return &Resources{
		pool:       func() *Pool { return pool },
		dictionary: func() (*Dictionary, error) { return dict, nil },
	}
}

// Pool returns the daily pool, never nil.
func (r *Resources) Pool() *Pool {
	if p := r.pool(); p != nil {
		return p
	}
	return DefaultPool()
}

// Dictionary returns the dictionary or the error from its one load attempt.
func (r *Resources) Dictionary() (*Dictionary, error) {
	dict, err := r.dictionary()
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, ErrEmptyDictionary
	}
	return dict, nil
}

// DailyWord returns the daily word for key.
func (r *Resources) DailyWord(key string) string {
	return Select(key, r.Pool())
}
