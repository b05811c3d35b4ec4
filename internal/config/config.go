package config

import (
	"os"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ScanPaths []string `toml:"scan_paths"`
	Workers   int      `toml:"workers"`
	Exclude   Exclude  `toml:"exclude"`
	Lint      Lint     `toml:"lint"`
	Cache     Cache    `toml:"cache"`
	Watch     Watch    `toml:"watch"`
	Metrics   Metrics  `toml:"metrics"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Lint struct {
	MaxJobsPerFile int      `toml:"max_jobs_per_file"`
	Disabled       []string `toml:"disabled"`
}

type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Watch struct {
	DebounceMS      int     `toml:"debounce_ms"`
	RescanPerSecond float64 `toml:"rescan_per_second"`
	RescanBurst     int     `toml:"rescan_burst"`
}

// Debounce is the event-coalescing window for watch mode.
func (w Watch) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

type Metrics struct {
	Addr string `toml:"addr"` // empty disables the /metrics endpoint
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
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
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.ScanPaths) == 0 {
		c.ScanPaths = []string{"."}
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if len(c.Exclude.Dirs) == 0 {
		c.Exclude.Dirs = []string{".*", "__pycache__", "node_modules", "venv"}
	}
	if c.Lint.MaxJobsPerFile <= 0 {
		c.Lint.MaxJobsPerFile = 10
	}
	if c.Cache.Path == "" {
		c.Cache.Path = ".wirelint/cache.db"
	}
	if c.Watch.DebounceMS <= 0 {
		c.Watch.DebounceMS = 500
	}
	if c.Watch.RescanPerSecond <= 0 {
		c.Watch.RescanPerSecond = 2
	}
	if c.Watch.RescanBurst <= 0 {
		c.Watch.RescanBurst = 4
	}
}
