// Package config wraps viper so packages read settings through a small,
// nil-safe interface.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides: server.port is read from
// SPACEMATCH_SERVER_PORT.
const EnvPrefix = "SPACEMATCH"

// Config is a read-only view of the service configuration.
type Config struct {
	v *viper.Viper
}

// New wraps v. A nil viper behaves as an empty configuration.
func New(v *viper.Viper) *Config {
	if v == nil {
		v = viper.New()
	}
	return &Config{v: v}
}

// SetDefaults registers the default value of every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("catalog.path", "")
	v.SetDefault("match.qualify_score", 3)
	v.SetDefault("match.near_threshold", 1.5)
	v.SetDefault("match.near_limit", 5)
	v.SetDefault("log.level", "info")
}

// Load reads the configuration file at path, when given, on top of the
// defaults and lets SPACEMATCH_* environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return New(v), nil
	}

	v.SetConfigName("spacematch")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return New(v), nil
}

// Viper exposes the underlying viper instance, for flag binding.
func (c *Config) Viper() *viper.Viper { return c.v }

// GetString returns the value of key as a string.
func (c *Config) GetString(key string) string { return c.v.GetString(key) }

// GetInt returns the value of key as an int.
func (c *Config) GetInt(key string) int { return c.v.GetInt(key) }

// GetFloat64 returns the value of key as a float64.
func (c *Config) GetFloat64(key string) float64 { return c.v.GetFloat64(key) }

// GetBool returns the value of key as a bool.
func (c *Config) GetBool(key string) bool { return c.v.GetBool(key) }

// GetDuration returns the value of key as a time.Duration.
func (c *Config) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }

// IsSet reports whether key has a value from any source.
func (c *Config) IsSet(key string) bool { return c.v.IsSet(key) }

// Set overrides key, taking precedence over every other source.
func (c *Config) Set(key string, value any) { c.v.Set(key, value) }

// Sub returns the subtree under key. It never returns nil.
func (c *Config) Sub(key string) *Config {
	return New(c.v.Sub(key))
}

// Unmarshal decodes the configuration into target using mapstructure tags.
func (c *Config) Unmarshal(target any) error {
	return c.v.Unmarshal(target)
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	host, port := c.GetString("server.host"), c.GetString("server.port")
	if host == "" && port == "" {
		return "0.0.0.0:8080"
	}
	return host + ":" + port
}
