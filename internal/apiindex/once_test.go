package apiindex

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingBuilder struct {
	calls atomic.Int32
	fail  atomic.Bool
}

func (b *countingBuilder) Build(context.Context) (*ApiIndex, error) {
	b.calls.Add(1)
	if b.fail.Load() {
		return nil, errors.New("scan failed")
	}
	return sampleIndex(), nil
}

func TestOnceBuildsOnce(t *testing.T) {
	t.Parallel()

	builder := &countingBuilder{}
	once := NewOnce(builder)

	var wg sync.WaitGroup
	results := make([]*ApiIndex, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			index, err := once.Build(context.Background())
			require.NoError(t, err)
			results[i] = index
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), builder.calls.Load())
	require.True(t, once.Done())
	for _, index := range results {
		require.Same(t, results[0], index)
	}
}

func TestOnceDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	builder := &countingBuilder{}
	builder.fail.Store(true)
	once := NewOnce(builder)

	_, err := once.Build(context.Background())
	require.Error(t, err)
	require.False(t, once.Done())

	builder.fail.Store(false)
	index, err := once.Build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, index)
	require.Equal(t, int32(2), builder.calls.Load())
}

type gatedBuilder struct {
	calls   atomic.Int32
	release chan struct{}
}

func (b *gatedBuilder) Build(context.Context) (*ApiIndex, error) {
	if b.calls.Add(1) == 1 {
		<-b.release
		return nil, errors.New("scan failed")
	}
	return sampleIndex(), nil
}

func TestOnceSharesFailedAttemptWithWaiters(t *testing.T) {
	t.Parallel()

	builder := &gatedBuilder{release: make(chan struct{})}
	once := NewOnce(builder)

	const callers = 5
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = once.Build(context.Background())
		}()
	}

	require.Eventually(t, func() bool { return builder.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(builder.release)
	wg.Wait()

	require.Equal(t, int32(1), builder.calls.Load())
	for _, err := range errs {
		require.EqualError(t, err, "scan failed")
	}
	require.False(t, once.Done())

	index, err := once.Build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, index)
	require.Equal(t, int32(2), builder.calls.Load())
}

func TestOnceWaiterHonorsContext(t *testing.T) {
	t.Parallel()

	builder := &gatedBuilder{release: make(chan struct{})}
	once := NewOnce(builder)

	go func() { _, _ = once.Build(context.Background()) }()
	require.Eventually(t, func() bool { return builder.calls.Load() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := once.Build(ctx)
	require.ErrorIs(t, err, context.Canceled)

	close(builder.release)
	require.Equal(t, int32(1), builder.calls.Load())
}

func TestOnceThroughContext(t *testing.T) {
	t.Parallel()

	_, ok := OnceFromContext(context.Background())
	require.False(t, ok)

	builder := &countingBuilder{}
	ctx := WithOnce(context.Background(), NewOnce(builder))

	for range 3 {
		once, ok := OnceFromContext(ctx)
		require.True(t, ok)

		resolver := NewResolver(BuildLoader(once))
		versions, err := resolver.Versions(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"v5", "v6"}, versions)
	}

	require.Equal(t, int32(1), builder.calls.Load())
}
