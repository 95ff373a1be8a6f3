// Package config provides configuration loading, defaults, and validation for
// the gloss service and command line tool.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the complete runtime configuration.
type Config struct {
	Analyzer AnalyzerConfig `mapstructure:"analyzer"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Warmup   WarmupConfig   `mapstructure:"warmup"`
}

// AnalyzerConfig selects how ichiran-cli is invoked.
type AnalyzerConfig struct {
	Binary string `mapstructure:"binary"`
	// Container runs the analyzer with docker exec when set.
	Container    string        `mapstructure:"container"`
	DockerBinary string        `mapstructure:"docker_binary"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// CacheConfig selects the lookup cache backend.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend"`
	Size          int           `mapstructure:"size"`
	TTL           time.Duration `mapstructure:"ttl"`
	Prefix        string        `mapstructure:"prefix"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxRequestSize int           `mapstructure:"max_request_size"`
	// Concurrency limits concurrent requests; 0 uses the fasthttp default.
	Concurrency int `mapstructure:"concurrency"`
}

// LogConfig configures the logger.
type LogConfig struct {
	JSON bool   `mapstructure:"json"`
	File string `mapstructure:"file"`
}

// WarmupConfig configures the startup warmup.
type WarmupConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if c.Analyzer.Binary == "" {
		errs = append(errs, errors.New("analyzer.binary must not be empty"))
	}
	if c.Analyzer.Timeout <= 0 {
		errs = append(errs, errors.New("analyzer.timeout must be positive"))
	}
	switch c.Cache.Backend {
	case CacheBackendNone, CacheBackendMemory:
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend %q is not one of none, memory, redis", c.Cache.Backend))
	}
	if c.Cache.Size < 0 {
		errs = append(errs, errors.New("cache.size must not be negative"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	if c.Server.MaxRequestSize <= 0 {
		errs = append(errs, errors.New("server.max_request_size must be positive"))
	}
	return errors.Join(errs...)
}
