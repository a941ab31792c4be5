/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package batch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MaxBatchSize is the remote store's per-request item ceiling.
const MaxBatchSize = 10

// Chunk splits items into consecutive chunks of at most size elements.
// Order is preserved: the concatenation of the chunks equals the input.
// An empty input yields zero chunks, so bulk operations issue zero
// remote calls rather than one no-op request.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		size = MaxBatchSize
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// Worker processes one chunk. The index identifies the chunk's position
// in the original input.
type Worker[T, R any] func(ctx context.Context, index int, chunk []T) ([]R, error)

// Dispatch applies worker to each chunk with at most concurrency chunks
// in flight. Dispatch order follows input order; completion order is
// unconstrained, and the flattened result is reassembled in
// (chunk order, within-chunk order) regardless of which chunk finishes
// first.
//
// The first worker error fails the whole call. In-flight sibling chunks
// are not cancelled; they run to completion and their results are
// discarded. Writes already issued against the remote store are not
// rolled back, so a failed bulk operation may be partially applied.
func Dispatch[T, R any](ctx context.Context, chunks [][]T, concurrency int, worker Worker[T, R]) ([]R, error) {
	if len(chunks) == 0 {
		return nil, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([][]R, len(chunks))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			out, err := worker(ctx, i, chunk)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	flat := make([]R, 0, total)
	for _, r := range results {
		flat = append(flat, r...)
	}
	return flat, nil
}
