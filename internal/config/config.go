// Package config loads service configuration from the environment, an
// optional .env file and an optional YAML rules file.
package config

import (
	"time"

	"wordsinwords/internal/words"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	// Server
	Port         int    `env:"PORT" envDefault:"8080"`
	GinMode      string `env:"GIN_MODE"`
	Environment  string `env:"ENV" envDefault:"development"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	TrustedProxy string `env:"TRUSTED_PROXY" envDefault:"127.0.0.1"`

	// Sessions and rate limiting
	SessionTimeout time.Duration `env:"SESSION_TIMEOUT" envDefault:"2h"`
	CookieMaxAge   time.Duration `env:"COOKIE_MAX_AGE" envDefault:"8760h"`
	RateLimitRPS   int           `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"10"`

	// Word lists
	PoolPath       string `env:"POOL_PATH" envDefault:"data/daily_pool.txt"`
	DictionaryPath string `env:"DICTIONARY_PATH" envDefault:"data/dictionary.txt"`
	// DictionaryMinWords is the smallest dictionary accepted at startup in
	// production. The bundled list is a starter list; deployments point
	// DICTIONARY_PATH at a full word list such as ENABLE or SCOWL.
	DictionaryMinWords int    `env:"DICTIONARY_MIN_WORDS" envDefault:"2500"`
	Timezone           string `env:"TIMEZONE"`

	// Persistence
	StoreBackend  string        `env:"STORE_BACKEND" envDefault:"file"`
	StoreDir      string        `env:"STORE_DIR" envDefault:"data/state"`
	StoreMaxAge   time.Duration `env:"STORE_MAX_AGE" envDefault:"720h"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisTTL      time.Duration `env:"REDIS_TTL" envDefault:"720h"`
	RedisRetries  uint64        `env:"REDIS_MAX_RETRIES" envDefault:"5"`

	// Game rules, overridable from RulesPath
	RulesPath string `env:"RULES_PATH"`
	Rules     Rules  `envPrefix:"RULES_"`
}

// Rules are the tunable game constants.
type Rules struct {
	DailyGoal       int `env:"DAILY_GOAL" envDefault:"20" yaml:"daily_goal"`
	PoolMinLength   int `env:"POOL_MIN_LENGTH" envDefault:"8" yaml:"pool_min_length"`
	PoolMaxLength   int `env:"POOL_MAX_LENGTH" envDefault:"11" yaml:"pool_max_length"`
	PoolMinDistinct int `env:"POOL_MIN_DISTINCT" envDefault:"6" yaml:"pool_min_distinct"`
}

// Band returns the daily-word eligibility band.
func (r Rules) Band() words.Band {
	return words.Band{
		MinLength:   r.PoolMinLength,
		MaxLength:   r.PoolMaxLength,
		MinDistinct: r.PoolMinDistinct,
	}
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release" || c.Environment == "production"
}

// Location resolves Timezone, defaulting to the process local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
