package warmup

import (
	"context"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_ichiran_gloss/internal/ports"
)

// SampleSentence is looked up once per analyzer; ichiran loads its
// dictionary on the first call.
const SampleSentence = "母親"

// sampleSegments is representative analyzer output.
var sampleSegments = []string{
	"* hahaoya  母親 【ははおや】\n1. [n] mother\n2. [n] mom",
	"* kekkon shite  結婚して\n<1>. 結婚 【けっこん】\n1. [n,vs] marriage\n<2>. して\n1. [vs-i] to do\n" +
		"[ Conjugation: [vs-i] Conjunctive (~te) doing",
	"* no  の\n1. [prt] indicates possessive",
	"* kimi  君 【きみ】\n1. [pn] you\n2. [n] ruler\n3. [n] monarch\n4. [n] suffix",
}

// WarmupConfig defines configuration for warming up the system
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Number of sample segments per generated analyzer output
	SampleSegments int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency:    runtime.NumCPU(),
		Iterations:     200,
		SampleSegments: 100,
		Duration:       60 * time.Second,
		ForceGC:        true,
	}
}

// Manager handles system warmup operations
type Manager struct {
	logger      ports.Logger
	analyzers   []ports.Analyzer
	processors  []ports.StreamProcessor
	normalizers []ports.Normalizer
	config      WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterAnalyzer adds an analyzer to be warmed up
func (wm *Manager) RegisterAnalyzer(a ports.Analyzer) {
	wm.analyzers = append(wm.analyzers, a)
}

// RegisterStreamProcessor adds a stream processor to be warmed up
func (wm *Manager) RegisterStreamProcessor(proc ports.StreamProcessor) {
	wm.processors = append(wm.processors, proc)
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// WarmUp runs the warmup process for all registered components.
// Failures are logged and never returned.
func (wm *Manager) WarmUp(ctx context.Context) {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", len(wm.analyzers)+len(wm.processors)+len(wm.normalizers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	// Create a context with timeout if duration is specified
	var warmupCtx context.Context
	var cancel context.CancelFunc
	if wm.config.Duration > 0 {
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	} else {
		warmupCtx = ctx
	}

	sample := GenerateSampleOutput(wm.config.SampleSegments)

	wm.warmUpAnalyzers(warmupCtx)
	wm.warmUpNormalizers(warmupCtx, sample)
	wm.warmUpStreamProcessors(warmupCtx, sample)

	// Force garbage collection if configured
	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("System warmup completed",
		"duration", time.Since(startTime),
	)
}

// warmUpAnalyzers performs one sample lookup per analyzer
func (wm *Manager) warmUpAnalyzers(ctx context.Context) {
	for i, a := range wm.analyzers {
		start := time.Now()
		if _, err := a.Lookup(ctx, SampleSentence); err != nil {
			wm.logger.Warn("Analyzer warmup failed", "analyzer", i, "error", err)
			continue
		}
		wm.logger.Debug("Analyzer warmed up", "analyzer", i, "duration", time.Since(start))
	}
}

// warmUpNormalizers runs warmup for all registered normalizers
func (wm *Manager) warmUpNormalizers(ctx context.Context, sample string) {
	if len(wm.normalizers) == 0 {
		return
	}

	wm.logger.Debug("Warming up normalizers", "count", len(wm.normalizers))

	wm.parallel(ctx, wm.config.Iterations, func() {
		for _, normalizer := range wm.normalizers {
			_ = normalizer.Normalize(sample)
		}
	})
}

// warmUpStreamProcessors runs warmup for all registered stream processors
func (wm *Manager) warmUpStreamProcessors(ctx context.Context, sample string) {
	if len(wm.processors) == 0 {
		return
	}

	wm.logger.Debug("Warming up stream processors", "count", len(wm.processors))

	wm.parallel(ctx, wm.config.Iterations/10, func() { // Fewer iterations for streaming
		for _, processor := range wm.processors {
			_, _ = processor.Process(ctx, strings.NewReader(sample), io.Discard)
		}
	})
}

// parallel runs fn iterations times on each warmup routine until ctx is done
func (wm *Manager) parallel(ctx context.Context, iterations int, fn func()) {
	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < iterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				fn()
			}
		}()
	}

	wg.Wait()
}

// GenerateSampleOutput builds analyzer output made of n sample segments
func GenerateSampleOutput(n int) string {
	if n <= 0 {
		return ""
	}
	segments := make([]string, n)
	for i := range segments {
		segments[i] = sampleSegments[i%len(sampleSegments)]
	}
	return strings.Join(segments, "\n\n")
}
