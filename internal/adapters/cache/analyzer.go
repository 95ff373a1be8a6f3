package cache

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/analyzer"
	"github.com/baditaflorin/go_ichiran_gloss/internal/metrics"
	"github.com/baditaflorin/go_ichiran_gloss/internal/ports"
)

// CachedAnalyzer serves analyzer output from a Store, running the wrapped
// analyzer only on a miss. Concurrent misses for the same text share one run.
type CachedAnalyzer struct {
	next    ports.Analyzer
	store   Store
	prefix  string
	logger  ports.Logger
	metrics *metrics.Metrics
	group   singleflight.Group
}

// NewCachedAnalyzer decorates next with store.
func NewCachedAnalyzer(next ports.Analyzer, store Store, prefix string, logger ports.Logger, m *metrics.Metrics) *CachedAnalyzer {
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &CachedAnalyzer{
		next:    next,
		store:   store,
		prefix:  prefix,
		logger:  logger,
		metrics: m,
	}
}

// Lookup implements ports.Analyzer.
func (c *CachedAnalyzer) Lookup(ctx context.Context, text string) (string, error) {
	text = analyzer.CleanInput(text)
	if text == "" {
		return "", analyzer.ErrEmptyInput
	}
	key := c.prefix + text

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		c.metrics.CacheHitsTotal.WithLabelValues(c.store.Name()).Inc()
		return raw, nil
	case !errors.Is(err, ErrCacheMiss):
		c.logger.Warn("Cache read failed", "backend", c.store.Name(), "key", key, "error", err)
	}
	c.metrics.CacheMissesTotal.WithLabelValues(c.store.Name()).Inc()

	// The shared lookup outlives any single caller; the analyzer applies its
	// own timeout.
	flight := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		raw, err := c.next.Lookup(flight, text)
		if err != nil {
			return "", err
		}
		if err := c.store.Set(flight, key, raw); err != nil {
			c.logger.Warn("Cache write failed", "backend", c.store.Name(), "key", key, "error", err)
		}
		return raw, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			c.logger.Debug("Shared analyzer lookup", "text", text)
		}
		return res.Val.(string), nil
	}
}
