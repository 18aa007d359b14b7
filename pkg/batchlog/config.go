package batchlog

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries the environment-derived settings for the pipeline. Category
// rules use the LOGKIT_CATEGORY_LEVELS variable in "Category:level" pairs,
// e.g. LOGKIT_CATEGORY_LEVELS="Microsoft:warning,Default:info".
type Config struct {
	BatchSize      int               `env:"LOGKIT_BATCH_SIZE" envDefault:"50"`                              // BatchSize is the number of records committed per batch.
	CommitTimeout  time.Duration     `env:"LOGKIT_COMMIT_TIMEOUT" envDefault:"5s"`                          // CommitTimeout bounds each sink append+commit round.
	DefaultLevel   Level             `env:"LOGKIT_DEFAULT_LEVEL" envDefault:"info"`                         // DefaultLevel applies to categories without an explicit rule.
	CategoryLevels map[string]string `env:"LOGKIT_CATEGORY_LEVELS" envSeparator:"," envKeyValSeparator:":"` // CategoryLevels maps category names to minimum level names.
}

// Rules merges the default level into the category table, ready for
// NewProvider. Level names in CategoryLevels are validated here rather than
// at parse time, so one bad rule names the offending category.
func (c Config) Rules() (map[string]Level, error) {
	rules := make(map[string]Level, len(c.CategoryLevels)+1)
	rules[DefaultCategory] = c.DefaultLevel
	for category, name := range c.CategoryLevels {
		level, err := ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", category, err)
		}
		rules[category] = level
	}
	return rules, nil
}

var dotenvOnce sync.Once

// LoadConfig populates Config from environment variables, loading a .env file
// first if one is present.
func LoadConfig() (Config, error) {
	dotenvOnce.Do(func() {
		// The .env file is optional; a missing one is not an error.
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}
