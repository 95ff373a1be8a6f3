package config

import "time"

// Cache backends.
const (
	CacheBackendNone   = "none"
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

const (
	DefaultAnalyzerBinary  = "ichiran-cli"
	DefaultDockerBinary    = "docker"
	DefaultAnalyzerTimeout = 30 * time.Second

	DefaultCacheBackend = CacheBackendMemory
	DefaultCacheSize    = 4096
	DefaultCacheTTL     = 24 * time.Hour
	DefaultCachePrefix  = "ichiran:"
	DefaultRedisAddr    = "localhost:6379"

	DefaultServerPort     = 8080
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultMaxRequestSize = 10 * 1024 * 1024 // 10MB

	DefaultWarmupEnabled = true
	DefaultWarmupTimeout = 60 * time.Second
)

// defaults maps every configuration key to its default value.
var defaults = map[string]interface{}{
	"analyzer.binary":        DefaultAnalyzerBinary,
	"analyzer.container":     "",
	"analyzer.docker_binary": DefaultDockerBinary,
	"analyzer.timeout":       DefaultAnalyzerTimeout,

	"cache.backend":        DefaultCacheBackend,
	"cache.size":           DefaultCacheSize,
	"cache.ttl":            DefaultCacheTTL,
	"cache.prefix":         DefaultCachePrefix,
	"cache.redis_addr":     DefaultRedisAddr,
	"cache.redis_password": "",
	"cache.redis_db":       0,

	"server.port":             DefaultServerPort,
	"server.read_timeout":     DefaultReadTimeout,
	"server.write_timeout":    DefaultWriteTimeout,
	"server.max_request_size": DefaultMaxRequestSize,
	"server.concurrency":      0,

	"log.json": false,
	"log.file": "",

	"warmup.enabled": DefaultWarmupEnabled,
	"warmup.timeout": DefaultWarmupTimeout,
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			Binary:       DefaultAnalyzerBinary,
			DockerBinary: DefaultDockerBinary,
			Timeout:      DefaultAnalyzerTimeout,
		},
		Cache: CacheConfig{
			Backend:   DefaultCacheBackend,
			Size:      DefaultCacheSize,
			TTL:       DefaultCacheTTL,
			Prefix:    DefaultCachePrefix,
			RedisAddr: DefaultRedisAddr,
		},
		Server: ServerConfig{
			Port:           DefaultServerPort,
			ReadTimeout:    DefaultReadTimeout,
			WriteTimeout:   DefaultWriteTimeout,
			MaxRequestSize: DefaultMaxRequestSize,
		},
		Warmup: WarmupConfig{
			Enabled: DefaultWarmupEnabled,
			Timeout: DefaultWarmupTimeout,
		},
	}
}
