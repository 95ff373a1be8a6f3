package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/baditaflorin/go_ichiran_gloss/internal/core/gloss"
	"github.com/baditaflorin/go_ichiran_gloss/internal/metrics"
	"github.com/baditaflorin/go_ichiran_gloss/internal/pool"
	"github.com/baditaflorin/go_ichiran_gloss/internal/ports"
)

const (
	// DefaultChunkSize defines the initial size of the read buffer
	DefaultChunkSize = 64 * 1024 // 64KB

	// MaxSegmentSize defines the largest segment the scanner accepts
	MaxSegmentSize = 16 * 1024 * 1024 // 16MB

	// ContextCheckFrequency defines how often to check for context cancellation
	ContextCheckFrequency = 100 // segments
)

// Processor normalizes analyzer output segment by segment as it is read.
// The written gloss is identical to gloss.Normalize over the whole input.
type Processor struct {
	logger  ports.Logger
	metrics *metrics.Metrics

	bufferPool  *pool.BufferPool
	builderPool *pool.BuilderPool

	maxSegmentSize int
}

// ProcessingConfig defines configuration for stream processing
type ProcessingConfig struct {
	ChunkSize      int
	MaxSegmentSize int
}

// NewProcessor creates a new stream processor
func NewProcessor(logger ports.Logger, m *metrics.Metrics, config ProcessingConfig) *Processor {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultChunkSize
	}
	if config.MaxSegmentSize <= 0 {
		config.MaxSegmentSize = MaxSegmentSize
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}

	return &Processor{
		logger:         logger,
		metrics:        m,
		bufferPool:     pool.NewBufferPool(config.ChunkSize),
		builderPool:    pool.NewBuilderPool(),
		maxSegmentSize: config.MaxSegmentSize,
	}
}

// countingReader counts the bytes read through it
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Process reads raw analyzer output from reader and writes the gloss to writer.
func (p *Processor) Process(ctx context.Context, reader io.Reader, writer io.Writer) (ports.StreamStats, error) {
	startTime := time.Now()
	var stats ports.StreamStats

	if reader == nil {
		p.logger.Error("Nil reader provided")
		return stats, io.ErrUnexpectedEOF
	}

	chunk := p.bufferPool.Get()
	defer p.bufferPool.Put(chunk)

	counter := &countingReader{r: reader}
	scanner := bufio.NewScanner(counter)
	scanner.Buffer((*chunk)[:0], p.maxSegmentSize)
	scanner.Split(ScanSegments)

	// Newlines ending the output so far; written only once more text follows.
	pending := 0

	for scanner.Scan() {
		if stats.Segments%ContextCheckFrequency == 0 {
			if err := ctx.Err(); err != nil {
				p.logger.Warn("Processing cancelled by context", "error", err)
				stats.BytesProcessed = counter.n
				return stats, err
			}
		}

		sb := p.builderPool.Get()
		gloss.AppendSegment(sb, gloss.SplitSegment(scanner.Text()))
		out := sb.String()
		p.builderPool.Put(sb)

		stats.Segments++
		trimmed := strings.TrimRight(out, "\n")
		if trimmed != "" {
			n, err := io.WriteString(writer, strings.Repeat("\n", pending)+trimmed)
			stats.BytesWritten += int64(n)
			if err != nil {
				stats.BytesProcessed = counter.n
				return stats, fmt.Errorf("write gloss: %w", err)
			}
			pending = 0
		}
		pending += len(out) - len(trimmed)
	}
	p.metrics.SegmentsTotal.Add(float64(stats.Segments))

	stats.BytesProcessed = counter.n
	stats.ProcessingTime = time.Since(startTime)

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			p.logger.Error("Segment exceeds maximum size", "max_segment_size", p.maxSegmentSize)
		} else {
			p.logger.Warn("Error reading from input", "error", err)
		}
		return stats, err
	}

	p.logger.Debug("Stream processing completed",
		"segments", stats.Segments,
		"bytes_processed", stats.BytesProcessed,
		"duration", stats.ProcessingTime,
	)
	return stats, nil
}
