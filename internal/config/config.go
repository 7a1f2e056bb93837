// # internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Scan    Scan    `toml:"scan"`
	Exclude Exclude `toml:"exclude"`
	Watch   Watch   `toml:"watch"`
	Output  Output  `toml:"output"`
	History History `toml:"history"`
	Alerts  Alerts  `toml:"alerts"`
}

type Scan struct {
	// Patterns are glob patterns resolved against the working directory.
	// Positional CLI arguments override them.
	Patterns []string `toml:"patterns"`
	// OnDuplicate is "replace" (last-write-wins, the default) or "error".
	OnDuplicate string `toml:"on_duplicate"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MaxRescansPerSec bounds how often watch mode may trigger a full
	// re-scan. Zero means one per second.
	MaxRescansPerSec float64 `toml:"max_rescans_per_sec"`
}

type Output struct {
	JSON    string `toml:"json"`
	TSV     string `toml:"tsv"`
	Msgpack string `toml:"msgpack"`
}

type History struct {
	// Path of the sqlite snapshot database. Empty disables history.
	Path string `toml:"path"`
}

type Alerts struct {
	Beep     bool `toml:"beep"`
	Terminal bool `toml:"terminal"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Alerts.Terminal = true
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
	if c.Watch.MaxRescansPerSec == 0 {
		c.Watch.MaxRescansPerSec = 1
	}
	if c.Scan.OnDuplicate == "" {
		c.Scan.OnDuplicate = "replace"
	}
}

func (c *Config) validate() error {
	switch c.Scan.OnDuplicate {
	case "replace", "error":
		return nil
	default:
		return fmt.Errorf("invalid on_duplicate value %q (want replace or error)", c.Scan.OnDuplicate)
	}
}
