package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const fileExt = ".json"

// File stores each key as one JSON file under a directory. Files older than
// MaxAge are treated as missing and removed on read.
type File struct {
	Dir    string
	MaxAge time.Duration
}

// NewFile creates dir if needed and returns a file-backed store.
func NewFile(dir string, maxAge time.Duration) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory %s: %w", dir, err)
	}
	return &File{Dir: dir, MaxAge: maxAge}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.Dir, url.QueryEscape(key)+fileExt)
}

// Get reads the file for key.
func (f *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	p := f.path(key)
	info, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("stat %s: %w", p, err)
	}
	if f.MaxAge > 0 {
		if age := time.Since(info.ModTime()); age > f.MaxAge {
			logrus.Infof("store file %s is too old (%v, max: %v), removing", p, age, f.MaxAge)
			_ = os.Remove(p)
			return nil, false, nil
		}
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", p, err)
	}
	return data, true, nil
}

// Set writes value for key through a temp file and rename so readers never
// see a partial file.
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := f.path(key)
	tmp, err := os.CreateTemp(f.Dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", p, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("rename into %s: %w", p, err)
	}
	return nil
}

// Cleanup removes stored files not modified within maxAge and returns how
// many were removed.
func (f *File) Cleanup(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(f.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read store directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed, failed := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			failed++
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(f.Dir, entry.Name())); err != nil {
			logrus.WithError(err).Warnf("failed to remove old store file %s", entry.Name())
			failed++
			continue
		}
		removed++
	}
	logrus.Infof("store cleanup completed: removed %d files, %d errors", removed, failed)
	return removed, nil
}

// Close is a no-op.
func (f *File) Close() error {
	return nil
}
