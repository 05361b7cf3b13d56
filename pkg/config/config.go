// Package config wraps viper-backed configuration for both the CLI and the
// HTTP job API, mirroring the teacher's pkg/louvain.Config: typed getters
// over a *viper.Viper with defaults set once at construction.
package config

import (
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config is the runtime configuration for one clustering process.
type Config struct {
	v *viper.Viper
}

// New builds a Config with every default from spec.md §6's CLI surface and
// this repository's ambient stack pre-populated.
func New() *Config {
	v := viper.New()

	// Algorithm parameters (spec.md §6 CLI surface).
	v.SetDefault("algorithm.margin", -0.999)
	v.SetDefault("algorithm.fast", false)
	v.SetDefault("algorithm.validate", true)
	v.SetDefault("algorithm.shuffle", false)
	v.SetDefault("algorithm.random_seed", time.Now().UnixNano())

	// Performance parameters.
	v.SetDefault("performance.num_workers", runtime.NumCPU())

	// Logging parameters.
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.enable_progress", false)

	// HTTP job API parameters.
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_concurrent_jobs", runtime.NumCPU())

	return &Config{v: v}
}

// LoadFromFile overlays configuration read from a file (JSON, YAML, TOML —
// whatever viper's extension sniffing recognizes) onto the defaults.
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Set allows dynamic configuration changes, mainly used by cmd/hirecs to
// apply parsed CLI flags onto an otherwise default-seeded Config.
func (c *Config) Set(key string, value interface{}) { c.v.Set(key, value) }

func (c *Config) Margin() float64      { return c.v.GetFloat64("algorithm.margin") }
func (c *Config) Fast() bool           { return c.v.GetBool("algorithm.fast") }
func (c *Config) Validate() bool       { return c.v.GetBool("algorithm.validate") }
func (c *Config) Shuffle() bool        { return c.v.GetBool("algorithm.shuffle") }
func (c *Config) RandomSeed() int64    { return c.v.GetInt64("algorithm.random_seed") }

func (c *Config) NumWorkers() int { return c.v.GetInt("performance.num_workers") }

func (c *Config) LogLevel() string      { return c.v.GetString("logging.level") }
func (c *Config) EnableProgress() bool  { return c.v.GetBool("logging.enable_progress") }

func (c *Config) ServerAddr() string        { return c.v.GetString("server.addr") }
func (c *Config) MaxConcurrentJobs() int    { return c.v.GetInt("server.max_concurrent_jobs") }
