package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/filterkit/pkg/query"
	"github.com/usestring/filterkit/pkg/types"
)

// fakeSearcher counts calls and returns one document per call.
type fakeSearcher struct {
	calls      atomic.Int64
	generation atomic.Uint64
	err        error
	release    chan struct{}
}

func (f *fakeSearcher) Search(_ context.Context, q query.Query) (*query.Result, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return &query.Result{
		Documents: []types.Document{{ID: "1"}, {ID: "2"}},
		TotalHits: 2,
	}, nil
}

func (f *fakeSearcher) Generation() uint64 { return f.generation.Load() }

func TestResultCache_HitAfterMiss(t *testing.T) {
	backend := &fakeSearcher{}
	c, err := NewResultCache(backend, 8)
	require.NoError(t, err)

	q := query.NewBuilder().SetWindow(0, 2).Build()

	first, err := c.Search(context.Background(), q)
	require.NoError(t, err)
	second, err := c.Search(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), backend.calls.Load())
	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, 1, c.Len())
}

func TestResultCache_DistinctQueries(t *testing.T) {
	backend := &fakeSearcher{}
	c, err := NewResultCache(backend, 8)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), query.NewBuilder().SetWindow(0, 2).Build())
	require.NoError(t, err)
	_, err = c.Search(context.Background(), query.NewBuilder().SetWindow(2, 2).Build())
	require.NoError(t, err)

	assert.Equal(t, int64(2), backend.calls.Load())
}

func TestResultCache_GenerationInvalidates(t *testing.T) {
	backend := &fakeSearcher{}
	c, err := NewResultCache(backend, 8)
	require.NoError(t, err)

	q := query.NewBuilder().Build()
	_, err = c.Search(context.Background(), q)
	require.NoError(t, err)

	backend.generation.Add(1)
	_, err = c.Search(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, int64(2), backend.calls.Load())
}

func TestResultCache_ErrorsNotCached(t *testing.T) {
	backend := &fakeSearcher{err: errors.New("backend down")}
	c, err := NewResultCache(backend, 8)
	require.NoError(t, err)

	q := query.NewBuilder().Build()
	_, err = c.Search(context.Background(), q)
	require.Error(t, err)
	_, err = c.Search(context.Background(), q)
	require.Error(t, err)

	assert.Equal(t, int64(2), backend.calls.Load())
	assert.Equal(t, 0, c.Len())
}

func TestResultCache_CallersCannotReorderCachedHits(t *testing.T) {
	backend := &fakeSearcher{}
	c, err := NewResultCache(backend, 8)
	require.NoError(t, err)

	q := query.NewBuilder().Build()
	res, err := c.Search(context.Background(), q)
	require.NoError(t, err)
	res.Documents[0], res.Documents[1] = res.Documents[1], res.Documents[0]

	again, err := c.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "1", again.Documents[0].ID)
}

func TestResultCache_CollapsesConcurrentMisses(t *testing.T) {
	backend := &fakeSearcher{release: make(chan struct{})}
	c, err := NewResultCache(backend, 8)
	require.NoError(t, err)

	q := query.NewBuilder().Build()

	const callers = 8
	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	for range callers {
		go func() {
			defer done.Done()
			started.Done()
			_, err := c.Search(context.Background(), q)
			assert.NoError(t, err)
		}()
	}
	started.Wait()
	close(backend.release)
	done.Wait()

	assert.LessOrEqual(t, backend.calls.Load(), int64(callers))
	assert.GreaterOrEqual(t, backend.calls.Load(), int64(1))
}

func TestNewResultCache_InvalidSize(t *testing.T) {
	_, err := NewResultCache(&fakeSearcher{}, 0)
	assert.Error(t, err)
}
