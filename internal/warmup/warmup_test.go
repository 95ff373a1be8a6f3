package warmup

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/logger"
	"github.com/baditaflorin/go_ichiran_gloss/internal/ports"
)

type countingNormalizer struct{ calls atomic.Int64 }

func (n *countingNormalizer) Normalize(raw string) string {
	n.calls.Add(1)
	return raw
}

type countingProcessor struct{ calls atomic.Int64 }

func (p *countingProcessor) Process(_ context.Context, r io.Reader, _ io.Writer) (ports.StreamStats, error) {
	p.calls.Add(1)
	_, _ = io.Copy(io.Discard, r)
	return ports.StreamStats{}, nil
}

type sampleAnalyzer struct {
	texts []string
	err   error
}

func (a *sampleAnalyzer) Lookup(_ context.Context, text string) (string, error) {
	a.texts = append(a.texts, text)
	return "", a.err
}

func TestWarmUp(t *testing.T) {
	wm := NewManager(logger.NewNopLogger(), WarmupConfig{
		Concurrency:    2,
		Iterations:     20,
		SampleSegments: 4,
		Duration:       5 * time.Second,
	})
	norm := &countingNormalizer{}
	proc := &countingProcessor{}
	ok := &sampleAnalyzer{}
	failing := &sampleAnalyzer{err: errors.New("not installed")}
	wm.RegisterNormalizer(norm)
	wm.RegisterStreamProcessor(proc)
	wm.RegisterAnalyzer(failing)
	wm.RegisterAnalyzer(ok)

	wm.WarmUp(context.Background())

	assert.Equal(t, int64(40), norm.calls.Load())
	assert.Equal(t, int64(4), proc.calls.Load())
	assert.Equal(t, []string{SampleSentence}, failing.texts)
	assert.Equal(t, []string{SampleSentence}, ok.texts, "a failing analyzer does not stop the warmup")
}

func TestWarmUpStopsOnCancelledContext(t *testing.T) {
	wm := NewManager(logger.NewNopLogger(), WarmupConfig{Concurrency: 1, Iterations: 1000})
	norm := &countingNormalizer{}
	wm.RegisterNormalizer(norm)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	wm.WarmUp(ctx)

	assert.Equal(t, int64(0), norm.calls.Load())
}

func TestGenerateSampleOutput(t *testing.T) {
	assert.Equal(t, "", GenerateSampleOutput(0))
	out := GenerateSampleOutput(6)
	assert.Equal(t, 5, strings.Count(out, "\n\n"))
}
