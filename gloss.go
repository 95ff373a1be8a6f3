// Package ichirangloss condenses the output of the ichiran Japanese
// morphological analyzer into short gloss lines.
//
// Normalize works on analyzer output that is already available:
//
//	gloss := ichirangloss.Normalize(raw)
//
// A Glosser runs ichiran-cli itself, locally or through docker exec:
//
//	g, err := ichirangloss.New(ichirangloss.WithContainer("ichiran-main-1"))
//	lines, err := g.Lookup(ctx, "母親です。")
package ichirangloss

import (
	"context"
	"time"

	"github.com/baditaflorin/l"

	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/analyzer"
	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/cache"
	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/logger"
	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/normalizer"
	"github.com/baditaflorin/go_ichiran_gloss/internal/core/gloss"
	"github.com/baditaflorin/go_ichiran_gloss/internal/core/glossary"
	"github.com/baditaflorin/go_ichiran_gloss/internal/ports"
)

// Normalize turns raw analyzer output into gloss lines joined by "\n".
func Normalize(raw string) string {
	return gloss.Normalize(raw)
}

// AnalyzerFunc returns the raw analyzer output for one sentence. It lets
// callers plug in their own way of reaching ichiran.
type AnalyzerFunc func(ctx context.Context, sentence string) (string, error)

// Lookup implements ports.Analyzer.
func (f AnalyzerFunc) Lookup(ctx context.Context, sentence string) (string, error) {
	return f(ctx, sentence)
}

// Option configures a Glosser.
type Option func(*glosserConfig)

type glosserConfig struct {
	Logger    ports.Logger
	Analyzer  analyzer.Config
	Func      AnalyzerFunc
	CacheSize int
	CacheTTL  time.Duration
}

// WithLogger sets the logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *glosserConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithAnalyzerBinary sets the ichiran-cli executable name or path.
func WithAnalyzerBinary(binary string) Option {
	return func(cfg *glosserConfig) {
		cfg.Analyzer.Binary = binary
	}
}

// WithContainer runs the analyzer inside the named docker container.
func WithContainer(container string) Option {
	return func(cfg *glosserConfig) {
		cfg.Analyzer.Container = container
	}
}

// WithTimeout bounds a single analyzer invocation.
func WithTimeout(d time.Duration) Option {
	return func(cfg *glosserConfig) {
		cfg.Analyzer.Timeout = d
	}
}

// WithCacheSize sets how many sentences are cached in memory. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(cfg *glosserConfig) {
		cfg.CacheSize = n
	}
}

// WithAnalyzerFunc replaces the ichiran-cli invocation with f.
func WithAnalyzerFunc(f AnalyzerFunc) Option {
	return func(cfg *glosserConfig) {
		cfg.Func = f
	}
}

// Glosser looks up the gloss of Japanese text.
type Glosser struct {
	service    *glossary.Service
	logger     ports.Logger
	ownsLogger bool
}

// New creates a Glosser. Without WithLogger a default logger writing to
// stderr is created and released by Close.
func New(opts ...Option) (*Glosser, error) {
	cfg := glosserConfig{
		CacheSize: cache.DefaultSize,
		CacheTTL:  cache.DefaultTTL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Glosser{logger: cfg.Logger}
	if g.logger == nil {
		lg, err := createDefaultLogger()
		if err != nil {
			return nil, err
		}
		g.logger = logger.FromExisting(lg)
		g.ownsLogger = true
	}

	var a ports.Analyzer
	if cfg.Func != nil {
		a = cfg.Func
	} else {
		a = analyzer.NewIchiran(cfg.Analyzer, nil, g.logger)
	}
	if cfg.CacheSize > 0 {
		a = cache.NewCachedAnalyzer(a, cache.NewMemoryStore(cfg.CacheSize, cfg.CacheTTL), cache.DefaultPrefix, g.logger, nil)
	}

	g.service = glossary.NewService(a, normalizer.NewDefaultNormalizer(), g.logger, nil)
	return g, nil
}

// Lookup splits text into sentences, analyzes each one and returns the
// gloss lines. Sentences are separated by an empty line.
func (g *Glosser) Lookup(ctx context.Context, text string) ([]string, error) {
	res, err := g.service.Lookup(ctx, text)
	if err != nil {
		return nil, err
	}
	return res.Lines, nil
}

// Caption is Lookup with every line prefixed by "# ".
func (g *Glosser) Caption(ctx context.Context, text string) ([]string, error) {
	res, err := g.service.Lookup(ctx, text)
	if err != nil {
		return nil, err
	}
	return res.Caption(), nil
}

// Close releases the logger created by New.
func (g *Glosser) Close() error {
	if g.ownsLogger {
		return g.logger.Close()
	}
	return nil
}
