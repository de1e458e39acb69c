package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"wordsinwords/internal/guess"
)

// Load reads a .env file if present, parses the environment into a Config
// and then applies the rules file named by RULES_PATH, whose values win over
// the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	} else {
		logrus.Info("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	if cfg.RulesPath != "" {
		if err := cfg.loadRules(cfg.RulesPath); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *Config) loadRules(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c.Rules); err != nil {
		return fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	logrus.Infof("loaded game rules from %s", path)
	return nil
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d (must be 1-65535)", c.Port)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("invalid RATE_LIMIT_RPS: %d (must be positive)", c.RateLimitRPS)
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("invalid RATE_LIMIT_BURST: %d (must be positive)", c.RateLimitBurst)
	}
	switch c.StoreBackend {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("invalid STORE_BACKEND: %q (must be memory, file or redis)", c.StoreBackend)
	}
	if c.DictionaryMinWords < 0 {
		return fmt.Errorf("invalid DICTIONARY_MIN_WORDS: %d (must not be negative)", c.DictionaryMinWords)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}

	r := c.Rules
	if r.DailyGoal <= 0 {
		return fmt.Errorf("invalid daily goal: %d (must be positive)", r.DailyGoal)
	}
	if r.PoolMinLength < guess.MinLength {
		return fmt.Errorf("invalid pool min length: %d (must be at least %d)", r.PoolMinLength, guess.MinLength)
	}
	if r.PoolMaxLength < r.PoolMinLength {
		return fmt.Errorf("invalid pool band: max length %d below min length %d", r.PoolMaxLength, r.PoolMinLength)
	}
	if r.PoolMinDistinct < 0 || r.PoolMinDistinct > r.PoolMaxLength {
		return fmt.Errorf("invalid pool min distinct letters: %d", r.PoolMinDistinct)
	}
	return nil
}
