package benchmark

import (
	"context"
	"io"
	"strings"
	"testing"

	ichirangloss "github.com/baditaflorin/go_ichiran_gloss"
	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/cache"
	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/logger"
	"github.com/baditaflorin/go_ichiran_gloss/internal/warmup"
	"github.com/baditaflorin/go_ichiran_gloss/pkg/streaming"
)

// BenchmarkNormalize measures the transducer over analyzer outputs of growing size
func BenchmarkNormalize(b *testing.B) {
	benchmarks := []struct {
		name     string
		segments int
	}{
		{"Small", 4},
		{"Medium", 400},
		{"Large", 40000},
	}

	for _, bm := range benchmarks {
		raw := warmup.GenerateSampleOutput(bm.segments)

		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(raw)))

			for i := 0; i < b.N; i++ {
				_ = ichirangloss.Normalize(raw)
			}
		})
	}
}

// BenchmarkStreaming measures the streaming normalizer with different chunk sizes
func BenchmarkStreaming(b *testing.B) {
	raw := warmup.GenerateSampleOutput(4000)
	ctx := context.Background()

	for _, chunk := range []struct {
		name string
		size int
	}{
		{"Chunk-4KB", 4 * 1024},
		{"Chunk-64KB", 64 * 1024},
	} {
		sn, err := streaming.NewStreamNormalizer(streaming.WithStreamingChunkSize(chunk.size))
		if err != nil {
			b.Fatal(err)
		}

		b.Run(chunk.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(raw)))

			for i := 0; i < b.N; i++ {
				if _, err := sn.ProcessReader(ctx, strings.NewReader(raw), io.Discard); err != nil {
					b.Fatal(err)
				}
			}
		})
		_ = sn.Close()
	}
}

type fixedAnalyzer string

func (a fixedAnalyzer) Lookup(context.Context, string) (string, error) {
	return string(a), nil
}

// BenchmarkCachedLookup measures the memory cache in front of the analyzer
func BenchmarkCachedLookup(b *testing.B) {
	a := cache.NewCachedAnalyzer(
		fixedAnalyzer(warmup.GenerateSampleOutput(4)),
		cache.NewMemoryStore(cache.DefaultSize, cache.DefaultTTL),
		cache.DefaultPrefix,
		logger.NewNopLogger(),
		nil,
	)
	ctx := context.Background()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := a.Lookup(ctx, warmup.SampleSentence); err != nil {
				b.Fatal(err)
			}
		}
	})
}
