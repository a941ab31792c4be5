/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package recordstore

import (
	"time"
)

// StreamResult represents a single record in a stream with metadata
type StreamResult struct {
	Record *Record    // The fetched record
	Error  error      // Stream-fatal error, if any; the channel closes after one
	Meta   StreamMeta // Metadata about this item
}

// StreamMeta contains metadata about a streamed record
type StreamMeta struct {
	Index      int64     // Record index in stream (0-based)
	PageNumber int       // Store page number (1-based)
	Timestamp  time.Time // When the record was retrieved
}

// StreamOptions configures streaming behavior
type StreamOptions struct {
	BufferSize      int                  // Channel buffer size (default: 100)
	PageSize        int                  // Records per store page (default: 100)
	ProgressHandler func(StreamProgress) // Optional progress callback, invoked per page
}

// StreamProgress tracks streaming progress
type StreamProgress struct {
	RecordsProcessed int64     // Total records processed
	PagesProcessed   int       // Total pages processed
	LastOffset       string    // Last pagination offset seen
	StartTime        time.Time // When streaming started
	CurrentRate      float64   // Records per second
}

// StreamOption is a functional option for configuring streaming
type StreamOption func(*StreamOptions)

// DefaultStreamOptions returns default streaming options
func DefaultStreamOptions() StreamOptions {
	return StreamOptions{
		BufferSize: 100,
		PageSize:   100,
	}
}

// WithBufferSize sets the channel buffer size
func WithBufferSize(size int) StreamOption {
	return func(opts *StreamOptions) {
		opts.BufferSize = size
	}
}

// WithPageSize sets the store page size
func WithPageSize(size int) StreamOption {
	return func(opts *StreamOptions) {
		opts.PageSize = size
	}
}

// WithProgressHandler sets a progress callback
func WithProgressHandler(handler func(StreamProgress)) StreamOption {
	return func(opts *StreamOptions) {
		opts.ProgressHandler = handler
	}
}
