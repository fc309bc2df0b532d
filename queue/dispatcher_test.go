package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/finsift/core"
	"github.com/poiesic/finsift/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupQueue(t *testing.T) *Queue {
	repo, backend, err := badger.NewMemoryQueue()
	require.NoError(t, err)
	q := New(repo)
	t.Cleanup(func() {
		q.Close()
		backend.Close()
	})
	return q
}

func TestDispatcherDeliversJobs(t *testing.T) {
	q := setupQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for i := 1; i <= 3; i++ {
		require.True(t, q.Enqueue(ctx, core.DocumentID(i)))
	}

	var mu sync.Mutex
	seen := map[core.DocumentID]int{}
	handler := func(_ context.Context, job *core.ProcessingJob) error {
		mu.Lock()
		seen[job.DocumentId]++
		done := len(seen) == 3
		mu.Unlock()
		if done {
			cancel()
		}
		return nil
	}

	d, err := NewDispatcher(q, handler, WithWorkers(2), WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, d.Run(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 3)
	for id, count := range seen {
		assert.Equal(t, 1, count, "document %d should be delivered once", id)
	}
}

func TestDispatcherAcksAfterHandler(t *testing.T) {
	q := setupQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.True(t, q.Enqueue(ctx, 5))

	handler := func(context.Context, *core.ProcessingJob) error {
		cancel()
		return nil
	}
	d, err := NewDispatcher(q, handler, WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, d.Run(ctx))

	// Acked: nothing pending, nothing in flight to recover
	pending, err := q.PendingJobs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
	recovered, err := q.repo.Recover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, recovered)
}

func TestDispatcherSurvivesHandlerError(t *testing.T) {
	q := setupQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.True(t, q.Enqueue(ctx, 1))
	require.True(t, q.Enqueue(ctx, 2))

	var mu sync.Mutex
	var handled []core.DocumentID
	handler := func(_ context.Context, job *core.ProcessingJob) error {
		mu.Lock()
		handled = append(handled, job.DocumentId)
		done := len(handled) == 2
		mu.Unlock()
		if done {
			cancel()
			return nil
		}
		return errors.New("transient handler failure")
	}

	d, err := NewDispatcher(q, handler, WithPollInterval(10*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, d.Run(ctx))

	mu.Lock()
	assert.Len(t, handled, 2)
	mu.Unlock()

	// A failed handler still acks; the failure lives on the document
	recovered, err := q.repo.Recover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, recovered)
}

func TestDispatcherStopsOnCancel(t *testing.T) {
	q := setupQueue(t)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	handler := func(context.Context, *core.ProcessingJob) error { return nil }
	d, err := NewDispatcher(q, handler, WithPollInterval(5*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, d.Run(ctx))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNewDispatcherValidation(t *testing.T) {
	q := setupQueue(t)
	handler := func(context.Context, *core.ProcessingJob) error { return nil }

	_, err := NewDispatcher(nil, handler)
	assert.ErrorIs(t, err, ErrQueueRequired)

	_, err = NewDispatcher(q, nil)
	assert.ErrorIs(t, err, ErrHandlerRequired)
}

func TestDispatcherDefaults(t *testing.T) {
	q := setupQueue(t)
	handler := func(context.Context, *core.ProcessingJob) error { return nil }

	d, err := NewDispatcher(q, handler)
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, d.workers)
	assert.Equal(t, DefaultPollInterval, d.pollInterval)

	d, err = NewDispatcher(q, handler, WithWorkers(4), WithPollInterval(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 4, d.workers)
	assert.Equal(t, time.Second, d.pollInterval)
}
