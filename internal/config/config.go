// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"time"

	"affordability-engine/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the affordability engine.
type Configuration struct {
	Server     ServerConfig     `yaml:"server,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Simulation SimulationConfig `yaml:"simulation,omitempty"`
	RateLimit  RateLimitConfig  `yaml:"rateLimit,omitempty"`
	Cache      CacheConfig      `yaml:"cache,omitempty"`
}

// ServerConfig holds the HTTP listener parameters.
type ServerConfig struct {
	Address      string `yaml:"address,omitempty"`
	MaxBodyBytes int64  `yaml:"maxBodyBytes,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// SimulationConfig bounds the payoff simulations.
type SimulationConfig struct {
	MaxMonths int `yaml:"maxMonths,omitempty"`
}

// RateLimitConfig holds the per-client token bucket parameters. A zero
// Capacity disables rate limiting.
type RateLimitConfig struct {
	Capacity       int           `yaml:"capacity,omitempty"`
	RefillInterval time.Duration `yaml:"refillInterval,omitempty"`
}

// CacheConfig selects the idempotency cache backend. An empty RedisAddress
// selects the in-process store.
type CacheConfig struct {
	RedisAddress   string        `yaml:"redisAddress,omitempty"`
	IdempotencyTTL time.Duration `yaml:"idempotencyTtl,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables override file values.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvPrefix("AFFORDABILITY")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

// DefaultConfiguration returns the configuration used when no file is given.
func DefaultConfiguration() *Configuration {
	configuration := &Configuration{}
	configuration.applyDefaults()
	return configuration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("server.maxBodyBytes", constants.DefaultMaxBodyBytes)
	v.SetDefault("simulation.maxMonths", constants.DefaultMaxMonths)
	v.SetDefault("cache.idempotencyTtl", defaultIdempotencyTTL)
}

const defaultIdempotencyTTL = 24 * time.Hour

func (c *Configuration) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = constants.DefaultServerAddress
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = constants.DefaultMaxBodyBytes
	}
	if c.Simulation.MaxMonths <= 0 {
		c.Simulation.MaxMonths = constants.DefaultMaxMonths
	}
	if c.Cache.IdempotencyTTL <= 0 {
		c.Cache.IdempotencyTTL = defaultIdempotencyTTL
	}
	if c.RateLimit.Capacity > 0 && c.RateLimit.RefillInterval <= 0 {
		c.RateLimit.RefillInterval = time.Minute
	}
}
