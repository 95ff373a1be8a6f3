package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
analyzer:
  container: ichiran_main_1
  timeout: 10s
cache:
  backend: redis
  redis_addr: "cache:6379"
  ttl: 1h
server:
  port: 9090
log:
  json: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gloss.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "ichiran_main_1", cfg.Analyzer.Container)
	assert.Equal(t, DefaultAnalyzerBinary, cfg.Analyzer.Binary)
	assert.Equal(t, 10*time.Second, cfg.Analyzer.Timeout)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "cache:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DefaultMaxRequestSize, cfg.Server.MaxRequestSize)
	assert.True(t, cfg.Log.JSON)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("GLOSS_SERVER_PORT", "7070")
	t.Setenv("GLOSS_CACHE_BACKEND", "none")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, CacheBackendNone, cfg.Cache.Backend)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeConfig(t, "cache:\n  backend: memcached\nserver:\n  port: 70000\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memcached")
	assert.Contains(t, err.Error(), "server.port")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Cache.Backend = CacheBackendRedis
	cfg.Cache.RedisAddr = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Analyzer.Timeout = 0
	assert.Error(t, cfg.Validate())
}
