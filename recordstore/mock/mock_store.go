/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of the recordstore
// capability for testing
package mock

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/recordstore"
)

// Store is an in-memory implementation of recordstore.Connector and
// recordstore.Handle for testing. Tables preserve insertion order.
type Store struct {
	mu     sync.RWMutex
	baseID string
	tables map[string][]*recordstore.Record
	nextID int

	connectCalls int
	createCalls  int
	updateCalls  int
	replaceCalls int
	destroyCalls int
	findCalls    int
	selectCalls  int

	createError  error
	updateError  error
	replaceError error
	destroyError error
	selectError  error
	connectError error

	createHook func(table string, fields []map[string]any) error
}

// New creates a new mock Store bound to baseID.
func New(baseID string) *Store {
	return &Store{
		baseID: baseID,
		tables: make(map[string][]*recordstore.Record),
	}
}

// WithCreateError makes Create calls return an error
func (s *Store) WithCreateError(err error) *Store {
	s.createError = err
	return s
}

// WithUpdateError makes Update calls return an error
func (s *Store) WithUpdateError(err error) *Store {
	s.updateError = err
	return s
}

// WithReplaceError makes Replace calls return an error
func (s *Store) WithReplaceError(err error) *Store {
	s.replaceError = err
	return s
}

// WithDestroyError makes Destroy calls return an error
func (s *Store) WithDestroyError(err error) *Store {
	s.destroyError = err
	return s
}

// WithSelectError makes SelectPage calls return an error
func (s *Store) WithSelectError(err error) *Store {
	s.selectError = err
	return s
}

// WithConnectError makes Connect calls return an error
func (s *Store) WithConnectError(err error) *Store {
	s.connectError = err
	return s
}

// WithCreateHook installs a callback invoked before each Create batch
func (s *Store) WithCreateHook(f func(table string, fields []map[string]any) error) *Store {
	s.createHook = f
	return s
}

// Seed inserts records directly, bypassing counters.
func (s *Store) Seed(table string, fields ...map[string]any) []*recordstore.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*recordstore.Record, 0, len(fields))
	for _, f := range fields {
		out = append(out, s.insert(table, f))
	}
	return out
}

// Connect implements recordstore.Connector; the Store acts as its own handle.
func (s *Store) Connect(accessKey, baseID string) (recordstore.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectCalls++
	if s.connectError != nil {
		return nil, s.connectError
	}
	return s, nil
}

// BaseID implements recordstore.Handle.
func (s *Store) BaseID() string {
	return s.baseID
}

// Create implements recordstore.Handle.
func (s *Store) Create(ctx context.Context, table string, fields []map[string]any, opts recordstore.WriteOptions) ([]*recordstore.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createError != nil {
		return nil, s.createError
	}
	if s.createHook != nil {
		if err := s.createHook(table, fields); err != nil {
			return nil, err
		}
	}
	out := make([]*recordstore.Record, 0, len(fields))
	for _, f := range fields {
		out = append(out, s.insert(table, f))
	}
	return out, nil
}

// Update implements recordstore.Handle with partial-merge semantics.
func (s *Store) Update(ctx context.Context, table string, changes []recordstore.Change, opts recordstore.WriteOptions) ([]*recordstore.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if s.updateError != nil {
		return nil, s.updateError
	}
	out := make([]*recordstore.Record, 0, len(changes))
	for _, ch := range changes {
		rec := s.lookup(table, ch.ID)
		if rec == nil {
			return nil, errors.NewNotFoundError(table, ch.ID)
		}
		for k, v := range ch.Fields {
			rec.Fields[k] = v
		}
		out = append(out, rec)
	}
	return out, nil
}

// Replace implements recordstore.Handle with full-overwrite semantics.
func (s *Store) Replace(ctx context.Context, table string, changes []recordstore.Change, opts recordstore.WriteOptions) ([]*recordstore.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceCalls++
	if s.replaceError != nil {
		return nil, s.replaceError
	}
	out := make([]*recordstore.Record, 0, len(changes))
	for _, ch := range changes {
		rec := s.lookup(table, ch.ID)
		if rec == nil {
			return nil, errors.NewNotFoundError(table, ch.ID)
		}
		rec.Fields = make(map[string]any, len(ch.Fields))
		for k, v := range ch.Fields {
			rec.Fields[k] = v
		}
		out = append(out, rec)
	}
	return out, nil
}

// Destroy implements recordstore.Handle.
func (s *Store) Destroy(ctx context.Context, table string, ids []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyCalls++
	if s.destroyError != nil {
		return nil, s.destroyError
	}
	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		recs := s.tables[table]
		found := false
		for i, r := range recs {
			if r.ID == id {
				s.tables[table] = append(recs[:i:i], recs[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return nil, errors.NewNotFoundError(table, id)
		}
		deleted = append(deleted, id)
	}
	return deleted, nil
}

// Find implements recordstore.Handle.
func (s *Store) Find(ctx context.Context, table, id string) (*recordstore.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++
	rec := s.lookup(table, id)
	if rec == nil {
		return nil, errors.NewNotFoundError(table, id)
	}
	return rec, nil
}

// SelectPage implements recordstore.Handle. It evaluates the equality
// formulas the gridstore client generates ("Col = 'v'", "{Col} = TRUE()");
// other formulas match nothing.
func (s *Store) SelectPage(ctx context.Context, table string, params *recordstore.QueryParams, offset string) (*recordstore.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectCalls++
	if s.selectError != nil {
		return nil, s.selectError
	}
	if params == nil {
		params = &recordstore.QueryParams{}
	}

	matched := make([]*recordstore.Record, 0)
	for _, r := range s.tables[table] {
		if matchFormula(params.FilterByFormula, r) {
			matched = append(matched, project(r, params.Fields))
		}
	}
	if params.MaxRecords > 0 && len(matched) > params.MaxRecords {
		matched = matched[:params.MaxRecords]
	}

	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	start := 0
	if offset != "" {
		start, _ = strconv.Atoi(offset)
	}
	end := start + pageSize
	next := ""
	if end >= len(matched) {
		end = len(matched)
	} else {
		next = strconv.Itoa(end)
	}
	return &recordstore.Page{Records: matched[start:end], Offset: next}, nil
}

// ConnectCalls returns the number of Connect invocations.
func (s *Store) ConnectCalls() int { return s.counter(&s.connectCalls) }

// CreateCalls returns the number of Create invocations.
func (s *Store) CreateCalls() int { return s.counter(&s.createCalls) }

// UpdateCalls returns the number of Update invocations.
func (s *Store) UpdateCalls() int { return s.counter(&s.updateCalls) }

// ReplaceCalls returns the number of Replace invocations.
func (s *Store) ReplaceCalls() int { return s.counter(&s.replaceCalls) }

// DestroyCalls returns the number of Destroy invocations.
func (s *Store) DestroyCalls() int { return s.counter(&s.destroyCalls) }

// FindCalls returns the number of Find invocations.
func (s *Store) FindCalls() int { return s.counter(&s.findCalls) }

// SelectCalls returns the number of SelectPage invocations.
func (s *Store) SelectCalls() int { return s.counter(&s.selectCalls) }

// Len returns the number of records in a table.
func (s *Store) Len(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[table])
}

func (s *Store) counter(c *int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *c
}

func (s *Store) insert(table string, fields map[string]any) *recordstore.Record {
	s.nextID++
	ct := strfmt.DateTime(time.Now().UTC())
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	rec := (&recordstore.Record{
		ID:          fmt.Sprintf("rec%06d", s.nextID),
		Fields:      copied,
		CreatedTime: &ct,
	}).Bind(s, table)
	s.tables[table] = append(s.tables[table], rec)
	return rec
}

func (s *Store) lookup(table, id string) *recordstore.Record {
	for _, r := range s.tables[table] {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func project(r *recordstore.Record, fields []string) *recordstore.Record {
	if len(fields) == 0 {
		return r
	}
	projected := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := r.Fields[f]; ok {
			projected[f] = v
		}
	}
	out := *r
	out.Fields = projected
	return &out
}

// matchFormula evaluates the single-equality formulas gridstore emits.
func matchFormula(formula string, r *recordstore.Record) bool {
	if formula == "" {
		return true
	}
	parts := strings.SplitN(formula, " = ", 2)
	if len(parts) != 2 {
		return false
	}
	column := strings.TrimSuffix(strings.TrimPrefix(parts[0], "{"), "}")
	have, ok := r.Fields[column]
	if !ok {
		return false
	}
	want := parts[1]
	switch {
	case strings.HasPrefix(want, "'") && strings.HasSuffix(want, "'"):
		lit := strings.ReplaceAll(want[1:len(want)-1], `\'`, "'")
		hs, ok := have.(string)
		return ok && hs == lit
	case want == "TRUE()":
		hb, ok := have.(bool)
		return ok && hb
	case want == "FALSE()":
		hb, ok := have.(bool)
		return ok && !hb
	default:
		num, err := strconv.ParseFloat(want, 64)
		if err != nil {
			return false
		}
		switch hv := have.(type) {
		case int:
			return float64(hv) == num
		case int64:
			return float64(hv) == num
		case float64:
			return hv == num
		default:
			return false
		}
	}
}
