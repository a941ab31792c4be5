/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package recordstore

import (
	"context"
	"errors"

	"github.com/go-openapi/strfmt"
)

// ErrUnboundRecord is returned by record mutators on a plain (flattened)
// record that carries no connection back to its origin table.
var ErrUnboundRecord = errors.New("record is not bound to a table")

// Record is one row of a table: an opaque store-assigned ID, a map of
// column name to cell value, and the creation timestamp. Records
// returned by a Handle are bound to their origin table and expose
// accessor/mutator capability; Flatten produces the plain projection.
type Record struct {
	ID          string           `json:"id,omitempty"`
	Fields      map[string]any   `json:"fields"`
	CreatedTime *strfmt.DateTime `json:"createdTime,omitempty"`

	table  string
	handle Handle
}

// Bind attaches the record to its origin table, enabling Get/Set/Save/Destroy.
func (r *Record) Bind(h Handle, table string) *Record {
	r.handle = h
	r.table = table
	return r
}

// Bound reports whether the record carries a connection to its origin table.
func (r *Record) Bound() bool {
	return r.handle != nil
}

// Flatten returns the plain projection of the record: ID, fields and
// creation time with no bound capability.
func (r *Record) Flatten() *Record {
	return &Record{ID: r.ID, Fields: r.Fields, CreatedTime: r.CreatedTime}
}

// GetID returns the record's store-assigned identifier.
func (r *Record) GetID() string {
	return r.ID
}

// Get returns the value of one field, or nil when absent.
func (r *Record) Get(field string) any {
	if r.Fields == nil {
		return nil
	}
	return r.Fields[field]
}

// Set stages a field value locally. Save pushes staged values to the store.
func (r *Record) Set(field string, value any) {
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	r.Fields[field] = value
}

// Save writes the record's current fields back to its origin table with
// partial-update semantics.
func (r *Record) Save(ctx context.Context) error {
	if r.handle == nil {
		return ErrUnboundRecord
	}
	updated, err := r.handle.Update(ctx, r.table, []Change{{ID: r.ID, Fields: r.Fields}}, WriteOptions{})
	if err != nil {
		return err
	}
	if len(updated) > 0 {
		r.Fields = updated[0].Fields
	}
	return nil
}

// Destroy deletes the record from its origin table.
func (r *Record) Destroy(ctx context.Context) error {
	if r.handle == nil {
		return ErrUnboundRecord
	}
	_, err := r.handle.Destroy(ctx, r.table, []string{r.ID})
	return err
}
