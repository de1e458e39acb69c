package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordsinwords/internal/words"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StoreFile, cfg.StoreBackend)
	assert.Equal(t, 2*time.Hour, cfg.SessionTimeout)
	assert.Equal(t, 20, cfg.Rules.DailyGoal)
	assert.Equal(t, 2500, cfg.DictionaryMinWords)
	assert.Equal(t, words.DefaultBand, cfg.Rules.Band())
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_TTL", "48h")
	t.Setenv("RULES_DAILY_GOAL", "30")
	t.Setenv("RULES_POOL_MIN_DISTINCT", "5")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, StoreRedis, cfg.StoreBackend)
	assert.Equal(t, 48*time.Hour, cfg.RedisTTL)
	assert.Equal(t, 30, cfg.Rules.DailyGoal)
	assert.Equal(t, 5, cfg.Rules.PoolMinDistinct)
}

func TestLoadRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("daily_goal: 15\npool_max_length: 12\n"), 0644))
	t.Setenv("RULES_PATH", path)
	t.Setenv("RULES_DAILY_GOAL", "30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Rules.DailyGoal, "file wins over environment")
	assert.Equal(t, 12, cfg.Rules.PoolMaxLength)
	assert.Equal(t, 8, cfg.Rules.PoolMinLength, "unset keys keep their defaults")
}

func TestLoadRulesFileErrors(t *testing.T) {
	t.Setenv("RULES_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("daily_goal: [oops"), 0644))
	t.Setenv("RULES_PATH", bad)
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 70000 }},
		{"rps", func(c *Config) { c.RateLimitRPS = 0 }},
		{"burst", func(c *Config) { c.RateLimitBurst = -1 }},
		{"backend", func(c *Config) { c.StoreBackend = "postgres" }},
		{"dictionary min words", func(c *Config) { c.DictionaryMinWords = -1 }},
		{"timezone", func(c *Config) { c.Timezone = "Mars/Olympus_Mons" }},
		{"goal", func(c *Config) { c.Rules.DailyGoal = 0 }},
		{"min length", func(c *Config) { c.Rules.PoolMinLength = 3 }},
		{"band order", func(c *Config) { c.Rules.PoolMaxLength = 6 }},
		{"distinct", func(c *Config) { c.Rules.PoolMinDistinct = 40 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
