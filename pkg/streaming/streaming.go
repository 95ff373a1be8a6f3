// Package streaming normalizes ichiran analyzer output read from an
// io.Reader, writing gloss lines as soon as each segment is complete.
package streaming

import (
	"context"
	"io"
	"strings"

	"github.com/baditaflorin/l"

	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/logger"
	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/stream"
	"github.com/baditaflorin/go_ichiran_gloss/internal/ports"
)

// StreamResult describes one streaming run.
type StreamResult struct {
	Segments       int
	BytesProcessed int64
	BytesWritten   int64
	ProcessingTime string // Duration as string for easy display
}

// StreamNormalizer normalizes analyzer output streams.
type StreamNormalizer struct {
	processor  *stream.Processor
	logger     ports.Logger
	ownsLogger bool
}

// StreamingOption defines a functional option for configuring StreamNormalizer
type StreamingOption func(*streamingConfig)

type streamingConfig struct {
	ChunkSize      int
	MaxSegmentSize int
	Logger         ports.Logger
}

// WithStreamingChunkSize sets the initial read buffer size
func WithStreamingChunkSize(size int) StreamingOption {
	return func(cfg *streamingConfig) {
		cfg.ChunkSize = size
	}
}

// WithMaxSegmentSize sets the largest segment accepted before failing
func WithMaxSegmentSize(size int) StreamingOption {
	return func(cfg *streamingConfig) {
		cfg.MaxSegmentSize = size
	}
}

// WithStreamingLogger sets a custom logger
func WithStreamingLogger(lg l.Logger) StreamingOption {
	return func(cfg *streamingConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// NewStreamNormalizer creates a new StreamNormalizer instance
func NewStreamNormalizer(opts ...StreamingOption) (*StreamNormalizer, error) {
	config := &streamingConfig{
		ChunkSize:      stream.DefaultChunkSize,
		MaxSegmentSize: stream.MaxSegmentSize,
	}
	for _, opt := range opts {
		opt(config)
	}

	ownsLogger := config.Logger == nil
	if ownsLogger {
		var err error
		config.Logger, err = logger.New(logger.Options{Output: io.Discard})
		if err != nil {
			return nil, err
		}
	}

	return &StreamNormalizer{
		processor: stream.NewProcessor(config.Logger, nil, stream.ProcessingConfig{
			ChunkSize:      config.ChunkSize,
			MaxSegmentSize: config.MaxSegmentSize,
		}),
		logger:     config.Logger,
		ownsLogger: ownsLogger,
	}, nil
}

// ProcessReader normalizes everything read from r and writes the gloss to w.
func (sn *StreamNormalizer) ProcessReader(ctx context.Context, r io.Reader, w io.Writer) (StreamResult, error) {
	stats, err := sn.processor.Process(ctx, r, w)
	return StreamResult{
		Segments:       stats.Segments,
		BytesProcessed: stats.BytesProcessed,
		BytesWritten:   stats.BytesWritten,
		ProcessingTime: stats.ProcessingTime.String(),
	}, err
}

// ProcessString is a convenience wrapper around ProcessReader.
func (sn *StreamNormalizer) ProcessString(ctx context.Context, raw string) (string, StreamResult, error) {
	var sb strings.Builder
	res, err := sn.ProcessReader(ctx, strings.NewReader(raw), &sb)
	return sb.String(), res, err
}

// Close releases the logger created by NewStreamNormalizer. A logger passed
// with WithStreamingLogger stays open.
func (sn *StreamNormalizer) Close() error {
	if sn.ownsLogger {
		return sn.logger.Close()
	}
	return nil
}
