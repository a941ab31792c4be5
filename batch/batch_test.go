/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package batch

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestChunkSmallInput(t *testing.T) {
	for n := 1; n <= MaxBatchSize; n++ {
		chunks := Chunk(seq(n), MaxBatchSize)
		require.Len(t, chunks, 1, "input of %d items should yield one chunk", n)
		assert.Equal(t, seq(n), chunks[0])
	}
}

func TestChunkLargeInput(t *testing.T) {
	tests := []struct {
		n      int
		chunks int
		last   int
	}{
		{11, 2, 1},
		{20, 2, 10},
		{25, 3, 5},
		{101, 11, 1},
	}

	for _, tt := range tests {
		chunks := Chunk(seq(tt.n), MaxBatchSize)
		require.Len(t, chunks, tt.chunks, "n=%d", tt.n)

		var flat []int
		for i, c := range chunks {
			if i < len(chunks)-1 {
				assert.Len(t, c, MaxBatchSize, "n=%d chunk=%d", tt.n, i)
			} else {
				assert.Len(t, c, tt.last, "n=%d last chunk", tt.n)
			}
			flat = append(flat, c...)
		}
		assert.Equal(t, seq(tt.n), flat, "concatenation must equal input, n=%d", tt.n)
	}
}

func TestChunkEmptyInput(t *testing.T) {
	assert.Nil(t, Chunk([]int{}, MaxBatchSize))
	assert.Nil(t, Chunk[int](nil, MaxBatchSize))
}

func TestDispatchPreservesOrder(t *testing.T) {
	chunks := Chunk(seq(95), MaxBatchSize)

	identity := func(ctx context.Context, index int, chunk []int) ([]int, error) {
		// Random delay so completion order diverges from dispatch order.
		time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
		return chunk, nil
	}

	for _, concurrency := range []int{1, 4, 16} {
		flat, err := Dispatch(context.Background(), chunks, concurrency, identity)
		require.NoError(t, err)
		assert.Equal(t, seq(95), flat, "concurrency=%d", concurrency)
	}
}

func TestDispatchBoundsConcurrency(t *testing.T) {
	const limit = 3
	var inFlight, peak int64

	worker := func(ctx context.Context, index int, chunk []int) ([]int, error) {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return chunk, nil
	}

	_, err := Dispatch(context.Background(), Chunk(seq(100), MaxBatchSize), limit, worker)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(limit))
}

func TestDispatchFailureDiscardsResults(t *testing.T) {
	boom := errors.New("chunk failed")
	var completed int64
	var mu sync.Mutex
	started := map[int]bool{}

	worker := func(ctx context.Context, index int, chunk []int) ([]int, error) {
		mu.Lock()
		started[index] = true
		mu.Unlock()
		if index == 1 {
			return nil, boom
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt64(&completed, 1)
		return chunk, nil
	}

	flat, err := Dispatch(context.Background(), Chunk(seq(40), MaxBatchSize), 4, worker)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, flat, "results are discarded on failure")
	// Siblings are not cancelled: everything dispatched before Wait
	// returned ran to completion.
	assert.Equal(t, int64(len(started)-1), atomic.LoadInt64(&completed))
}

func TestDispatchEmpty(t *testing.T) {
	flat, err := Dispatch(context.Background(), nil, 4, func(ctx context.Context, index int, chunk []int) ([]int, error) {
		t.Fatal("worker must not run for zero chunks")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, flat)
}
