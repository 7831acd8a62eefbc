// Package config loads server configuration from a YAML file with sane
// defaults for local development.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/questforge/questmap/internal/errors"
)

// Config is the top-level server configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Tuning TuningConfig `yaml:"tuning"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Address string `yaml:"address"`
}

// RedisConfig holds storage connection settings
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// TuningConfig holds world tuning values. Zero values mean "use the engine
// default" so a partial config file stays valid.
type TuningConfig struct {
	Margin           float64 `yaml:"margin"`
	MinDistance      float64 `yaml:"min_distance"`
	InteractionRange float64 `yaml:"interaction_range"`
	CullDistance     float64 `yaml:"cull_distance"`
	DriftTolerance   float64 `yaml:"drift_tolerance"`
}

// Default returns the development configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{Address: ":8080"},
		Redis:  RedisConfig{Address: "localhost:6379"},
	}
}

// Load reads configuration from path, layered over the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	return cfg, nil
}

// Validate checks the loaded configuration for values that cannot work
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Server.Address == "" {
		vb.RequiredField("server.address")
	}
	if c.Redis.Address == "" {
		vb.RequiredField("redis.address")
	}
	if c.Tuning.Margin < 0 {
		vb.InvalidField("tuning.margin", "must not be negative")
	}
	if c.Tuning.MinDistance < 0 {
		vb.InvalidField("tuning.min_distance", "must not be negative")
	}
	if c.Tuning.InteractionRange < 0 {
		vb.InvalidField("tuning.interaction_range", "must not be negative")
	}
	if c.Tuning.CullDistance < 0 {
		vb.InvalidField("tuning.cull_distance", "must not be negative")
	}
	if c.Tuning.DriftTolerance < 0 {
		vb.InvalidField("tuning.drift_tolerance", "must not be negative")
	}

	return vb.Build()
}
