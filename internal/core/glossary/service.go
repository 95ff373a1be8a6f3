// Package glossary builds the gloss of a whole text block by analyzing it
// sentence by sentence.
package glossary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/baditaflorin/go_ichiran_gloss/internal/core/domain"
	"github.com/baditaflorin/go_ichiran_gloss/internal/metrics"
	"github.com/baditaflorin/go_ichiran_gloss/internal/ports"
)

// SentenceDelimiter ends a Japanese sentence.
const SentenceDelimiter = "。"

// ErrLookupFailed is returned when a sentence of the block could not be analyzed.
var ErrLookupFailed = errors.New("glossary lookup failed")

// Service looks up every sentence of a block and normalizes the result.
type Service struct {
	analyzer   ports.Analyzer
	normalizer ports.Normalizer
	logger     ports.Logger
	metrics    *metrics.Metrics
}

// NewService creates a glossary service. A nil metrics records nowhere.
func NewService(analyzer ports.Analyzer, normalizer ports.Normalizer, logger ports.Logger, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &Service{
		analyzer:   analyzer,
		normalizer: normalizer,
		logger:     logger,
		metrics:    m,
	}
}

// Sentences splits a block into its non-empty sentences.
func Sentences(block string) []string {
	var out []string
	for _, s := range strings.Split(block, SentenceDelimiter) {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Lookup analyzes every sentence of block. The gloss lines of consecutive
// sentences are separated by one empty line. The first failing sentence
// aborts the lookup.
func (s *Service) Lookup(ctx context.Context, block string) (domain.Glossary, error) {
	g := domain.Glossary{Text: block}

	for _, sentence := range Sentences(block) {
		if err := ctx.Err(); err != nil {
			return g, fmt.Errorf("%w: %w", ErrLookupFailed, err)
		}

		start := time.Now()
		raw, err := s.analyzer.Lookup(ctx, sentence)
		s.metrics.LookupDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			s.metrics.LookupsTotal.WithLabelValues("error").Inc()
			return g, fmt.Errorf("%w: %q: %w", ErrLookupFailed, sentence, err)
		}
		s.metrics.LookupsTotal.WithLabelValues("ok").Inc()

		lines := strings.Split(s.normalizer.Normalize(raw), "\n")
		g.Sentences = append(g.Sentences, domain.SentenceGloss{Sentence: sentence, Lines: lines})
		if len(g.Lines) > 0 {
			g.Lines = append(g.Lines, "")
		}
		g.Lines = append(g.Lines, lines...)
	}

	s.logger.Debug("Glossary built", "sentences", len(g.Sentences), "lines", len(g.Lines))
	return g, nil
}
