package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/analyzer"
	"github.com/baditaflorin/go_ichiran_gloss/internal/adapters/logger"
	"github.com/baditaflorin/go_ichiran_gloss/internal/metrics"
)

type countingAnalyzer struct {
	calls atomic.Int32
	out   string
	err   error
	delay time.Duration
}

func (a *countingAnalyzer) Lookup(_ context.Context, text string) (string, error) {
	a.calls.Add(1)
	time.Sleep(a.delay)
	if a.err != nil {
		return "", a.err
	}
	return a.out + text, nil
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, error) { return "", errors.New("down") }
func (brokenStore) Set(context.Context, string, string) error    { return errors.New("down") }
func (brokenStore) Name() string                                 { return "broken" }

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2, time.Hour)

	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "b", "2"))
	require.NoError(t, s.Set(ctx, "c", "3"))
	assert.Equal(t, 2, s.Len())

	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss, "oldest entry is evicted")
	v, err := s.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
	assert.Equal(t, BackendMemory, s.Name())
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	s, err := NewRedisStore(ctx, RedisConfig{Addr: mr.Addr(), TTL: time.Minute})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "k", "v"))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(2 * time.Minute)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisStore(context.Background(), RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestRedisStoreGetError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreFromClient(client, 0)
	mr.Close()

	_, err = s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestCachedAnalyzerHitSkipsAnalyzer(t *testing.T) {
	next := &countingAnalyzer{out: "raw:"}
	m := metrics.NewUnregistered()
	c := NewCachedAnalyzer(next, NewMemoryStore(10, time.Hour), DefaultPrefix, logger.NewNopLogger(), m)

	for i := 0; i < 3; i++ {
		out, err := c.Lookup(context.Background(), "＊母")
		require.NoError(t, err)
		assert.Equal(t, "raw:母", out)
	}
	assert.Equal(t, int32(1), next.calls.Load())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues(BackendMemory)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues(BackendMemory)))
}

func TestCachedAnalyzerErrorsAreNotCached(t *testing.T) {
	next := &countingAnalyzer{err: analyzer.ErrAnalyzerFailed}
	store := NewMemoryStore(10, time.Hour)
	c := NewCachedAnalyzer(next, store, DefaultPrefix, logger.NewNopLogger(), nil)

	_, err := c.Lookup(context.Background(), "母")
	assert.ErrorIs(t, err, analyzer.ErrAnalyzerFailed)
	_, err = c.Lookup(context.Background(), "母")
	assert.ErrorIs(t, err, analyzer.ErrAnalyzerFailed)
	assert.Equal(t, int32(2), next.calls.Load())
	assert.Equal(t, 0, store.Len())
}

func TestCachedAnalyzerEmptyInput(t *testing.T) {
	next := &countingAnalyzer{}
	c := NewCachedAnalyzer(next, NewMemoryStore(10, time.Hour), DefaultPrefix, logger.NewNopLogger(), nil)

	_, err := c.Lookup(context.Background(), "＊")
	assert.ErrorIs(t, err, analyzer.ErrEmptyInput)
	assert.Equal(t, int32(0), next.calls.Load())
}

func TestCachedAnalyzerDegradesOnStoreFailure(t *testing.T) {
	next := &countingAnalyzer{out: "raw:"}
	c := NewCachedAnalyzer(next, brokenStore{}, DefaultPrefix, logger.NewNopLogger(), nil)

	out, err := c.Lookup(context.Background(), "母")
	require.NoError(t, err)
	assert.Equal(t, "raw:母", out)
}

func TestCachedAnalyzerCoalescesConcurrentMisses(t *testing.T) {
	next := &countingAnalyzer{out: "raw:", delay: 50 * time.Millisecond}
	c := NewCachedAnalyzer(next, NewMemoryStore(10, time.Hour), DefaultPrefix, logger.NewNopLogger(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := c.Lookup(context.Background(), "母")
			assert.NoError(t, err)
			assert.Equal(t, "raw:母", out)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, next.calls.Load(), int32(2))
}

type slowAnalyzer struct {
	calls atomic.Int32
	delay time.Duration
}

func (a *slowAnalyzer) Lookup(ctx context.Context, text string) (string, error) {
	a.calls.Add(1)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(a.delay):
		return "raw:" + text, nil
	}
}

func TestCachedAnalyzerCancelledCallerDoesNotFailOthers(t *testing.T) {
	next := &slowAnalyzer{delay: 100 * time.Millisecond}
	c := NewCachedAnalyzer(next, NewMemoryStore(10, time.Hour), DefaultPrefix, logger.NewNopLogger(), nil)

	first, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = c.Lookup(first, "母")
	}()

	time.Sleep(5 * time.Millisecond)
	out, err := c.Lookup(context.Background(), "母")
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, "raw:母", out)
	assert.ErrorIs(t, firstErr, context.DeadlineExceeded)
	assert.Equal(t, int32(1), next.calls.Load())

	out, err = c.Lookup(context.Background(), "母")
	require.NoError(t, err)
	assert.Equal(t, "raw:母", out, "the detached lookup still fills the cache")
	assert.Equal(t, int32(1), next.calls.Load())
}
