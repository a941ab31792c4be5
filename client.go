/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gridstore

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/suparena/gridstore/batch"
	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/keycase"
	"github.com/suparena/gridstore/ratelimit"
	"github.com/suparena/gridstore/recordstore"
)

// Client is the record service façade. It holds immutable instance
// defaults; every operation resolves a per-call effective configuration
// (defaults merged with an optional CallOptions override), chunks bulk
// inputs to the store's 10-item ceiling, throttles admission to the
// store's rate ceiling, and fans chunks out with bounded concurrency
// while preserving input order in the results.
//
// Bulk-by-predicate operations (UpdateWhere, ReplaceWhere, DeleteWhere,
// Upsert) read and then write in separate requests; they are not
// transactional, and a failed bulk write may leave the remote table
// partially modified.
type Client struct {
	defaults Options
	handles  *handleCache
	limiter  *ratelimit.Limiter
	log      zerolog.Logger
}

// New creates a Client with the given instance defaults, talking to the
// store through connector. The defaults are copied and never mutated by
// any later call.
func New(defaults Options, connector recordstore.Connector) (*Client, error) {
	applyDefaults(&defaults)
	log := zerolog.Nop()
	handles, err := newHandleCache(connector, log)
	if err != nil {
		return nil, err
	}
	return &Client{
		defaults: defaults,
		handles:  handles,
		limiter:  ratelimit.New(defaults.RequestsPerSecond, time.Second),
		log:      log,
	}, nil
}

// WithLogger sets the client's logger and returns the client.
func (c *Client) WithLogger(log zerolog.Logger) *Client {
	c.log = log
	c.handles.log = log
	return c
}

// Defaults returns a copy of the instance defaults.
func (c *Client) Defaults() Options {
	return c.defaults
}

// resolve merges the optional per-call override onto the instance
// defaults and binds the connection handle for the resolved
// (credential, base) pair.
func (c *Client) resolve(calls []*CallOptions) (Options, recordstore.Handle, error) {
	var call *CallOptions
	if len(calls) > 0 {
		call = calls[0]
	}
	eff := merge(c.defaults, call)
	if eff.AccessKey == "" {
		return eff, nil, errors.NewInvalidConfigurationError("no access key resolved")
	}
	if eff.BaseID == "" {
		return eff, nil, errors.NewInvalidConfigurationError("no base ID resolved")
	}
	if eff.Table == "" {
		return eff, nil, errors.NewInvalidConfigurationError("no table name resolved")
	}
	h, err := c.handles.get(eff.AccessKey, eff.BaseID)
	if err != nil {
		return eff, nil, err
	}
	return eff, h, nil
}

// Create inserts a single record and returns it bare.
func (c *Client) Create(ctx context.Context, fields map[string]any, opts ...*CallOptions) (*recordstore.Record, error) {
	if len(fields) == 0 {
		return nil, errors.NewEmptyInputError("create")
	}
	recs, err := c.CreateAll(ctx, []map[string]any{fields}, opts...)
	if err != nil {
		return nil, err
	}
	return recs[0], nil
}

// CreateAll inserts a batch of records, chunked to the store ceiling,
// and returns them in input order.
func (c *Client) CreateAll(ctx context.Context, records []map[string]any, opts ...*CallOptions) ([]*recordstore.Record, error) {
	if len(records) == 0 {
		return nil, errors.NewEmptyInputError("create")
	}
	eff, h, err := c.resolve(opts)
	if err != nil {
		return nil, err
	}
	return c.createFields(ctx, eff, h, records)
}

func (c *Client) createFields(ctx context.Context, eff Options, h recordstore.Handle, records []map[string]any) ([]*recordstore.Record, error) {
	wo := recordstore.WriteOptions{Typecast: eff.Typecast}
	chunks := batch.Chunk(records, batch.MaxBatchSize)
	c.log.Debug().Str("table", eff.Table).Int("records", len(records)).Int("chunks", len(chunks)).Msg("create")
	return batch.Dispatch(ctx, chunks, eff.Concurrency, func(ctx context.Context, index int, chunk []map[string]any) ([]*recordstore.Record, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		recs, err := h.Create(ctx, eff.Table, chunk, wo)
		if err != nil {
			return nil, err
		}
		return c.normalizeAll(eff, recs), nil
	})
}

// Find fetches a single record by ID.
func (c *Client) Find(ctx context.Context, id string, opts ...*CallOptions) (*recordstore.Record, error) {
	if id == "" {
		return nil, errors.NewMissingArgumentsError("find", "a record ID")
	}
	eff, h, err := c.resolve(opts)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	rec, err := h.Find(ctx, eff.Table, id)
	if err != nil {
		return nil, err
	}
	return c.normalize(eff, rec), nil
}

// List issues a full paginated query and returns all matching records.
// The caller transform, when set, is applied after shape and key-casing
// normalization: records it returns nil for are dropped, but when it
// returns nil for every record the untransformed set is kept.
func (c *Client) List(ctx context.Context, params *recordstore.QueryParams, opts ...*CallOptions) ([]*recordstore.Record, error) {
	eff, h, err := c.resolve(opts)
	if err != nil {
		return nil, err
	}
	recs, err := c.selectAll(ctx, eff, h, params)
	if err != nil {
		return nil, err
	}
	normalized := c.normalizeAll(eff, recs)
	if eff.Transform == nil {
		return normalized, nil
	}
	transformed := make([]*recordstore.Record, 0, len(normalized))
	for _, r := range normalized {
		if t := eff.Transform(r); t != nil {
			transformed = append(transformed, t)
		}
	}
	// A transform that produced nothing at all is ignored rather than
	// turning the whole read into an empty result.
	if len(transformed) == 0 {
		return normalized, nil
	}
	return transformed, nil
}

// selectAll drains every page of a query, rate-limiting each page fetch.
func (c *Client) selectAll(ctx context.Context, eff Options, h recordstore.Handle, params *recordstore.QueryParams) ([]*recordstore.Record, error) {
	var all []*recordstore.Record
	offset := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		page, err := h.SelectPage(ctx, eff.Table, params, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// Update applies a partial update to one record and returns it bare.
// Fields not named are retained on the remote record.
func (c *Client) Update(ctx context.Context, id string, fields map[string]any, opts ...*CallOptions) (*recordstore.Record, error) {
	if id == "" {
		return nil, errors.NewMissingArgumentsError("update", "a record ID")
	}
	if len(fields) == 0 {
		return nil, errors.NewEmptyInputError("update")
	}
	recs, err := c.UpdateAll(ctx, []recordstore.Change{{ID: id, Fields: fields}}, opts...)
	if err != nil {
		return nil, err
	}
	return recs[0], nil
}

// UpdateAll applies a batch of partial updates in input order.
func (c *Client) UpdateAll(ctx context.Context, changes []recordstore.Change, opts ...*CallOptions) ([]*recordstore.Record, error) {
	if len(changes) == 0 {
		return nil, errors.NewEmptyInputError("update")
	}
	eff, h, err := c.resolve(opts)
	if err != nil {
		return nil, err
	}
	return c.writeChanges(ctx, eff, h, "update", changes, h.Update)
}

// Replace overwrites one record in full and returns it bare. Fields not
// named are cleared on the remote record.
func (c *Client) Replace(ctx context.Context, id string, fields map[string]any, opts ...*CallOptions) (*recordstore.Record, error) {
	if id == "" {
		return nil, errors.NewMissingArgumentsError("replace", "a record ID")
	}
	if len(fields) == 0 {
		return nil, errors.NewEmptyInputError("replace")
	}
	recs, err := c.ReplaceAll(ctx, []recordstore.Change{{ID: id, Fields: fields}}, opts...)
	if err != nil {
		return nil, err
	}
	return recs[0], nil
}

// ReplaceAll applies a batch of full overwrites in input order.
func (c *Client) ReplaceAll(ctx context.Context, changes []recordstore.Change, opts ...*CallOptions) ([]*recordstore.Record, error) {
	if len(changes) == 0 {
		return nil, errors.NewEmptyInputError("replace")
	}
	eff, h, err := c.resolve(opts)
	if err != nil {
		return nil, err
	}
	return c.writeChanges(ctx, eff, h, "replace", changes, h.Replace)
}

type writeFunc func(ctx context.Context, table string, changes []recordstore.Change, opts recordstore.WriteOptions) ([]*recordstore.Record, error)

func (c *Client) writeChanges(ctx context.Context, eff Options, h recordstore.Handle, op string, changes []recordstore.Change, write writeFunc) ([]*recordstore.Record, error) {
	wo := recordstore.WriteOptions{Typecast: eff.Typecast}
	chunks := batch.Chunk(changes, batch.MaxBatchSize)
	c.log.Debug().Str("table", eff.Table).Str("op", op).Int("records", len(changes)).Int("chunks", len(chunks)).Msg("bulk write")
	return batch.Dispatch(ctx, chunks, eff.Concurrency, func(ctx context.Context, index int, chunk []recordstore.Change) ([]*recordstore.Record, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		recs, err := write(ctx, eff.Table, chunk, wo)
		if err != nil {
			return nil, err
		}
		return c.normalizeAll(eff, recs), nil
	})
}

// UpdateWhere partially updates every record matching the filter
// formula with the same field set. The read and the writes are separate
// requests; concurrent external mutation between them is not guarded
// against.
func (c *Client) UpdateWhere(ctx context.Context, formula string, fields map[string]any, opts ...*CallOptions) ([]*recordstore.Record, error) {
	return c.writeWhere(ctx, "update", formula, fields, opts)
}

// ReplaceWhere fully overwrites every record matching the filter
// formula with the same field set.
func (c *Client) ReplaceWhere(ctx context.Context, formula string, fields map[string]any, opts ...*CallOptions) ([]*recordstore.Record, error) {
	return c.writeWhere(ctx, "replace", formula, fields, opts)
}

func (c *Client) writeWhere(ctx context.Context, op, formula string, fields map[string]any, opts []*CallOptions) ([]*recordstore.Record, error) {
	if len(fields) == 0 {
		return nil, errors.NewEmptyInputError(op)
	}
	eff, h, err := c.resolve(opts)
	if err != nil {
		return nil, err
	}
	matches, err := c.selectAll(ctx, eff, h, &recordstore.QueryParams{FilterByFormula: formula})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	changes := make([]recordstore.Change, 0, len(matches))
	for _, m := range matches {
		changes = append(changes, recordstore.Change{ID: m.ID, Fields: fields})
	}
	write := h.Update
	if op == "replace" {
		write = h.Replace
	}
	return c.writeChanges(ctx, eff, h, op, changes, write)
}

// Delete removes one record by ID.
func (c *Client) Delete(ctx context.Context, id string, opts ...*CallOptions) error {
	if id == "" {
		return errors.NewMissingArgumentsError("delete", "a record ID")
	}
	_, err := c.DeleteAll(ctx, []string{id}, opts...)
	return err
}

// DeleteAll removes a batch of records by ID, chunked to the store
// ceiling, and returns the deleted IDs in input order. An empty input
// issues zero remote calls.
func (c *Client) DeleteAll(ctx context.Context, ids []string, opts ...*CallOptions) ([]string, error) {
	eff, h, err := c.resolve(opts)
	if err != nil {
		return nil, err
	}
	return c.deleteIDs(ctx, eff, h, ids)
}

func (c *Client) deleteIDs(ctx context.Context, eff Options, h recordstore.Handle, ids []string) ([]string, error) {
	chunks := batch.Chunk(ids, batch.MaxBatchSize)
	c.log.Debug().Str("table", eff.Table).Int("records", len(ids)).Int("chunks", len(chunks)).Msg("delete")
	return batch.Dispatch(ctx, chunks, eff.Concurrency, func(ctx context.Context, index int, chunk []string) ([]string, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return h.Destroy(ctx, eff.Table, chunk)
	})
}

// DeleteWhere removes every record matching the filter formula and
// returns the deleted IDs.
func (c *Client) DeleteWhere(ctx context.Context, formula string, opts ...*CallOptions) ([]string, error) {
	eff, h, err := c.resolve(opts)
	if err != nil {
		return nil, err
	}
	matches, err := c.selectAll(ctx, eff, h, &recordstore.QueryParams{FilterByFormula: formula})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return c.deleteIDs(ctx, eff, h, ids)
}

// Truncate removes every record in the table and returns the deleted IDs.
func (c *Client) Truncate(ctx context.Context, opts ...*CallOptions) ([]string, error) {
	return c.DeleteWhere(ctx, "", opts...)
}

// TableSpec names one side of a table-to-table copy.
type TableSpec struct {
	// Table overrides the table name from Options when non-empty.
	Table string
	// Options carries the side's configuration override (base, key, etc.).
	Options *CallOptions
	// Fields projects the source read to the named columns. Copy side only.
	Fields []string
	// Filter restricts the source read. Copy side only.
	Filter string
}

func (s TableSpec) callOptions() *CallOptions {
	call := s.Options
	if call == nil {
		call = &CallOptions{}
	} else {
		copied := *call
		call = &copied
	}
	if s.Table != "" {
		call.Table = s.Table
	}
	return call
}

// AppendTable reads records from the source table and creates them in
// the destination, carrying over only each record's fields. Source and
// destination may live in different bases or behind different
// credentials via their Options.
func (c *Client) AppendTable(ctx context.Context, src, dst TableSpec) ([]*recordstore.Record, error) {
	srcEff, srcHandle, err := c.resolve([]*CallOptions{src.callOptions()})
	if err != nil {
		return nil, err
	}
	dstEff, dstHandle, err := c.resolve([]*CallOptions{dst.callOptions()})
	if err != nil {
		return nil, err
	}
	records, err := c.selectAll(ctx, srcEff, srcHandle, &recordstore.QueryParams{
		Fields:          src.Fields,
		FilterByFormula: src.Filter,
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	fields := make([]map[string]any, 0, len(records))
	for _, r := range records {
		fields = append(fields, r.Fields)
	}
	return c.createFields(ctx, dstEff, dstHandle, fields)
}

// OverwriteTable truncates the destination table, then appends the
// source into it. The truncate and the copy are separate bulk
// operations; a failure in between leaves the destination empty.
func (c *Client) OverwriteTable(ctx context.Context, src, dst TableSpec) ([]*recordstore.Record, error) {
	if _, err := c.Truncate(ctx, dst.callOptions()); err != nil {
		return nil, err
	}
	return c.AppendTable(ctx, src, dst)
}

// Upsert matches records whose key column equals data's value for that
// column. Zero matches creates one record from data; otherwise every
// match is partially updated with data. The read and the write are
// separate requests (optimistic, last write wins).
func (c *Client) Upsert(ctx context.Context, keyColumn string, data map[string]any, opts ...*CallOptions) ([]*recordstore.Record, error) {
	if keyColumn == "" || len(data) == 0 {
		return nil, errors.NewMissingArgumentsError("upsert", "a key column and data")
	}
	eff, h, err := c.resolve(opts)
	if err != nil {
		return nil, err
	}
	formula := EqualsFormula(keyColumn, data[keyColumn])
	matches, err := c.selectAll(ctx, eff, h, &recordstore.QueryParams{FilterByFormula: formula})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		created, err := c.createFields(ctx, eff, h, []map[string]any{data})
		if err != nil {
			return nil, err
		}
		return created, nil
	}
	changes := make([]recordstore.Change, 0, len(matches))
	for _, m := range matches {
		changes = append(changes, recordstore.Change{ID: m.ID, Fields: data})
	}
	return c.writeChanges(ctx, eff, h, "update", changes, h.Update)
}

// Stream issues a paginated query and delivers records over a buffered
// channel as pages arrive. The channel closes when the query is
// exhausted, ctx is done, or after delivering one stream-fatal error
// result. call may be nil.
func (c *Client) Stream(ctx context.Context, params *recordstore.QueryParams, call *CallOptions, opts ...recordstore.StreamOption) <-chan recordstore.StreamResult {
	options := recordstore.DefaultStreamOptions()
	for _, opt := range opts {
		opt(&options)
	}

	resultCh := make(chan recordstore.StreamResult, options.BufferSize)

	var calls []*CallOptions
	if call != nil {
		calls = []*CallOptions{call}
	}
	eff, h, err := c.resolve(calls)
	if err != nil {
		go func() {
			defer close(resultCh)
			resultCh <- recordstore.StreamResult{Error: err, Meta: recordstore.StreamMeta{Timestamp: time.Now()}}
		}()
		return resultCh
	}

	go c.streamWorker(ctx, eff, h, params, options, resultCh)
	return resultCh
}

func (c *Client) streamWorker(
	ctx context.Context,
	eff Options,
	h recordstore.Handle,
	params *recordstore.QueryParams,
	options recordstore.StreamOptions,
	resultCh chan<- recordstore.StreamResult,
) {
	defer close(resultCh)

	var index int64
	pageNumber := 0
	startTime := time.Now()

	paged := recordstore.QueryParams{}
	if params != nil {
		paged = *params
	}
	if options.PageSize > 0 {
		paged.PageSize = options.PageSize
	}

	offset := ""
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := c.limiter.Wait(ctx); err != nil {
			resultCh <- recordstore.StreamResult{Error: err, Meta: c.streamMeta(&index, pageNumber)}
			return
		}
		page, err := h.SelectPage(ctx, eff.Table, &paged, offset)
		if err != nil {
			resultCh <- recordstore.StreamResult{Error: err, Meta: c.streamMeta(&index, pageNumber)}
			return
		}
		pageNumber++

		for _, rec := range page.Records {
			result := recordstore.StreamResult{
				Record: c.normalize(eff, rec),
				Meta:   c.streamMeta(&index, pageNumber),
			}
			atomic.AddInt64(&index, 1)
			select {
			case resultCh <- result:
			case <-ctx.Done():
				return
			}
		}

		if options.ProgressHandler != nil {
			progress := recordstore.StreamProgress{
				RecordsProcessed: atomic.LoadInt64(&index),
				PagesProcessed:   pageNumber,
				LastOffset:       page.Offset,
				StartTime:        startTime,
			}
			elapsed := time.Since(startTime).Seconds()
			if elapsed > 0 {
				progress.CurrentRate = float64(progress.RecordsProcessed) / elapsed
			}
			options.ProgressHandler(progress)
		}

		if page.Offset == "" {
			return
		}
		offset = page.Offset
	}
}

func (c *Client) streamMeta(index *int64, page int) recordstore.StreamMeta {
	return recordstore.StreamMeta{
		Index:      atomic.LoadInt64(index),
		PageNumber: page,
		Timestamp:  time.Now(),
	}
}

// normalize applies key-casing and result-shape normalization to one record.
func (c *Client) normalize(eff Options, rec *recordstore.Record) *recordstore.Record {
	if rec == nil {
		return nil
	}
	if eff.KeyCasing == KeyCasingCamel {
		cased := *rec
		cased.Fields = keycase.CamelKeys(rec.Fields)
		rec = &cased
	}
	if eff.Shape == ShapePlain {
		rec = rec.Flatten()
	}
	return rec
}

func (c *Client) normalizeAll(eff Options, recs []*recordstore.Record) []*recordstore.Record {
	out := make([]*recordstore.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, c.normalize(eff, r))
	}
	return out
}
