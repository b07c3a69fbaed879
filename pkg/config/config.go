// Package config loads server configuration from TOML files.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/evisynth/nmakit/pkg/errors"
	"github.com/evisynth/nmakit/pkg/nma"
)

// Duration decodes TOML duration strings like "10s" or "2m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Config is the top-level server configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Engine EngineConfig `toml:"engine"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Listen          string   `toml:"listen"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// StoreConfig selects and configures the assessment store backend.
type StoreConfig struct {
	Backend string `toml:"backend"` // memory, file, redis or mongo

	File struct {
		Dir string `toml:"dir"`
	} `toml:"file"`

	Redis struct {
		Addr     string   `toml:"addr"`
		Password string   `toml:"password"`
		DB       int      `toml:"db"`
		TTL      Duration `toml:"ttl"`
	} `toml:"redis"`

	Mongo struct {
		URI        string `toml:"uri"`
		Database   string `toml:"database"`
		Collection string `toml:"collection"`
	} `toml:"mongo"`
}

// EngineConfig sets analysis defaults applied when requests omit them.
type EngineConfig struct {
	Simulations       int `toml:"simulations"`
	MinStudiesPerEdge int `toml:"min_studies_per_edge"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:          ":8080",
			ReadTimeout:     Duration{10 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Store: StoreConfig{Backend: "memory"},
		Engine: EngineConfig{
			Simulations:       nma.DefaultSimulations,
			MinStudiesPerEdge: nma.DefaultMinStudiesPerEdge,
		},
	}
}

// Load reads a TOML config file, filling unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file %s", path)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "file":
	case "redis":
		if c.Store.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis backend requires store.redis.addr")
		}
	case "mongo":
		if c.Store.Mongo.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "mongo backend requires store.mongo.uri")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q (want memory, file, redis or mongo)", c.Store.Backend)
	}

	if c.Server.Listen == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.listen must not be empty")
	}
	if err := errors.ValidateSimulations(c.Engine.Simulations); err != nil {
		return err
	}
	if c.Engine.MinStudiesPerEdge < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "engine.min_studies_per_edge must be at least 1")
	}
	return nil
}
