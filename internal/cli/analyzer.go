package cli

import (
	"context"

	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/analyzer"
	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/cache"
	"github.com/baditaflorin/go_ichiran_gloss/internal/config"
	"github.com/baditaflorin/go_ichiran_gloss/internal/metrics"
	"github.com/baditaflorin/go_ichiran_gloss/internal/ports"
)

func noopClose() error { return nil }

// NewAnalyzer builds the ichiran analyzer wrapped in the configured cache.
func NewAnalyzer(ctx context.Context, cfg *config.Config, log ports.Logger, m *metrics.Metrics) (ports.Analyzer, func() error, error) {
	ichiran := analyzer.NewIchiran(analyzer.Config{
		Binary:       cfg.Analyzer.Binary,
		Container:    cfg.Analyzer.Container,
		DockerBinary: cfg.Analyzer.DockerBinary,
		Timeout:      cfg.Analyzer.Timeout,
	}, nil, log)

	switch cfg.Cache.Backend {
	case config.CacheBackendMemory:
		store := cache.NewMemoryStore(cfg.Cache.Size, cfg.Cache.TTL)
		return cache.NewCachedAnalyzer(ichiran, store, cfg.Cache.Prefix, log, m), noopClose, nil
	case config.CacheBackendRedis:
		store, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return cache.NewCachedAnalyzer(ichiran, store, cfg.Cache.Prefix, log, m), store.Close, nil
	default:
		return ichiran, noopClose, nil
	}
}
