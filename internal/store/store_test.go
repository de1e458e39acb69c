package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kv interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// setupTestRedis starts a miniredis instance and a store on top of it.
func setupTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedis(client, time.Hour), mr
}

func backends(t *testing.T) map[string]kv {
	t.Helper()
	file, err := NewFile(filepath.Join(t.TempDir(), "state"), 0)
	require.NoError(t, err)
	rs, _ := setupTestRedis(t)
	return map[string]kv{
		"memory": NewMemory(),
		"file":   file,
		"redis":  rs,
	}
}

func TestBackendsRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			_, ok, err := s.Get(ctx, "wordsinwords:p1:day:2025-10-15")
			require.NoError(t, err)
			assert.False(t, ok, "missing key must report absent")

			require.NoError(t, s.Set(ctx, "wordsinwords:p1:day:2025-10-15", []byte(`{"a":1}`)))
			got, ok, err := s.Get(ctx, "wordsinwords:p1:day:2025-10-15")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `{"a":1}`, string(got))

			require.NoError(t, s.Set(ctx, "wordsinwords:p1:day:2025-10-15", []byte(`{"a":2}`)))
			got, _, err = s.Get(ctx, "wordsinwords:p1:day:2025-10-15")
			require.NoError(t, err)
			assert.JSONEq(t, `{"a":2}`, string(got))

			_, ok, err = s.Get(ctx, "wordsinwords:p2:day:2025-10-15")
			require.NoError(t, err)
			assert.False(t, ok, "keys must not leak across players")
		})
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'z'

	got, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	got[1] = 'z'

	again, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
	assert.Equal(t, 1, m.Len())
}

func TestFileExpiresOldEntries(t *testing.T) {
	ctx := context.Background()
	f, err := NewFile(t.TempDir(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "old", []byte("x")))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(f.path("old"), old, old))

	_, ok, err := f.Get(ctx, "old")
	require.NoError(t, err)
	assert.False(t, ok)
	_, statErr := os.Stat(f.path("old"))
	assert.True(t, os.IsNotExist(statErr), "expired file should be removed")
}

func TestFileKeyEscaping(t *testing.T) {
	ctx := context.Background()
	f, err := NewFile(t.TempDir(), 0)
	require.NoError(t, err)

	require.NoError(t, f.Set(ctx, "../escape", []byte("x")))
	entries, err := os.ReadDir(f.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Dir(f.path("../escape")), filepath.Clean(f.Dir))
}

func TestFileCleanup(t *testing.T) {
	ctx := context.Background()
	f, err := NewFile(t.TempDir(), 0)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "fresh", []byte("1")))
	require.NoError(t, f.Set(ctx, "stale", []byte("2")))
	require.NoError(t, os.WriteFile(filepath.Join(f.Dir, "notes.txt"), []byte("keep"), 0644))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(f.path("stale"), old, old))
	require.NoError(t, os.Chtimes(filepath.Join(f.Dir, "notes.txt"), old, old))

	removed, err := f.Cleanup(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, ok, _ := f.Get(ctx, "fresh")
	assert.True(t, ok)
	_, ok, _ = f.Get(ctx, "stale")
	assert.False(t, ok)
	_, err = os.Stat(filepath.Join(f.Dir, "notes.txt"))
	assert.NoError(t, err)
}

func TestFileCleanupMissingDir(t *testing.T) {
	f := &File{Dir: filepath.Join(t.TempDir(), "missing")}
	removed, err := f.Cleanup(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestFileHonoursCancelledContext(t *testing.T) {
	f, err := NewFile(t.TempDir(), 0)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, f.Set(ctx, "k", []byte("v")))
	_, _, err = f.Get(ctx, "k")
	assert.Error(t, err)
}

func TestRedisSetsTTL(t *testing.T) {
	ctx := context.Background()
	rs, mr := setupTestRedis(t)
	defer rs.Close()

	require.NoError(t, rs.Set(ctx, "k", []byte("v")))
	assert.Equal(t, time.Hour, mr.TTL("k"))

	mr.FastForward(2 * time.Hour)
	_, ok, err := rs.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisErrorsWhenDown(t *testing.T) {
	ctx := context.Background()
	rs, mr := setupTestRedis(t)
	defer rs.Close()
	mr.Close()

	_, _, err := rs.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, rs.Set(ctx, "k", []byte("v")))
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rs, err := ConnectRedis(context.Background(), RedisOptions{Addr: mr.Addr(), MaxRetries: 1})
	require.NoError(t, err)
	defer rs.Close()
	assert.NoError(t, rs.Ping(context.Background()))
	assert.Equal(t, DefaultTTL, rs.ttl)
}

func TestConnectRedisGivesUp(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := ConnectRedis(ctx, RedisOptions{Addr: "127.0.0.1:1", MaxRetries: 1})
	assert.Error(t, err)
}
