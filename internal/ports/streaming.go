package ports

import (
	"context"
	"io"
	"time"
)

// StreamStats holds the outcome of normalizing a stream of analyzer output.
type StreamStats struct {
	Segments       int
	BytesProcessed int64
	// BytesWritten counts gloss bytes written to the output.
	BytesWritten   int64
	ProcessingTime time.Duration
}

// StreamProcessor normalizes analyzer output read from a stream and writes the gloss.
type StreamProcessor interface {
	Process(ctx context.Context, reader io.Reader, writer io.Writer) (StreamStats, error)
}
