/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gridstore

import (
	"github.com/suparena/gridstore/recordstore"
)

// KeyCasing selects how record field keys are presented.
type KeyCasing int

const (
	// KeyCasingAsIs returns field keys exactly as the store holds them.
	KeyCasingAsIs KeyCasing = iota
	// KeyCasingCamel converts field keys to lowerCamelCase, deeply.
	KeyCasingCamel
)

// ResultShape selects how records are returned.
type ResultShape int

const (
	// ShapePlain returns the flattened projection: ID, fields, created time.
	ShapePlain ResultShape = iota
	// ShapeRich returns records bound to their origin table, exposing
	// Get/Set/Save/Destroy capability.
	ShapeRich
)

// Transform is an optional pure record transform applied after shape
// and key-casing normalization on read operations. Returning nil drops
// the record from the transformed set.
type Transform func(*recordstore.Record) *recordstore.Record

// Options are a client's instance defaults. They are set once at
// construction and never mutated afterward; every call works on an
// effective configuration derived from them.
type Options struct {
	// AccessKey is the credential presented to the remote store.
	AccessKey string
	// BaseID identifies the remote base.
	BaseID string
	// Table is the default table name.
	Table string
	// KeyCasing controls field-key presentation.
	KeyCasing KeyCasing
	// Shape controls the returned record presentation.
	Shape ResultShape
	// Typecast asks the store to coerce written cell values to column types.
	Typecast bool
	// Concurrency bounds how many chunks of one bulk operation are in
	// flight at once. Defaults to 1.
	Concurrency int
	// RequestsPerSecond bounds admission of outbound store calls across
	// the whole client. Defaults to 5, the provider ceiling.
	RequestsPerSecond int
	// Transform is applied to each record on read operations.
	Transform Transform
}

// DefaultOptions returns the zero configuration with defaults applied.
func DefaultOptions() Options {
	o := Options{}
	applyDefaults(&o)
	return o
}

func applyDefaults(o *Options) {
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 5
	}
}

// CallOptions transiently override a subset of the instance defaults
// for a single call. Zero-valued fields are treated as unset; pointer
// fields distinguish "unset" from an explicit zero.
type CallOptions struct {
	AccessKey   string
	BaseID      string
	Table       string
	KeyCasing   *KeyCasing
	Shape       *ResultShape
	Typecast    *bool
	Concurrency int
	Transform   Transform
}

// Table is the shorthand for overriding only the table name:
// client.Create(ctx, fields, gridstore.Table("Inventory")).
func Table(name string) *CallOptions {
	return &CallOptions{Table: name}
}

// merge resolves the effective configuration for one call. It is pure:
// defaults are copied, never written back, so no call can observe
// another call's override. A nil call returns the defaults unchanged.
func merge(defaults Options, call *CallOptions) Options {
	if call == nil {
		return defaults
	}
	merged := defaults
	if call.AccessKey != "" {
		merged.AccessKey = call.AccessKey
	}
	if call.BaseID != "" {
		merged.BaseID = call.BaseID
	}
	if call.Table != "" {
		merged.Table = call.Table
	}
	if call.KeyCasing != nil {
		merged.KeyCasing = *call.KeyCasing
	}
	if call.Shape != nil {
		merged.Shape = *call.Shape
	}
	if call.Typecast != nil {
		merged.Typecast = *call.Typecast
	}
	if call.Concurrency > 0 {
		merged.Concurrency = call.Concurrency
	}
	if call.Transform != nil {
		merged.Transform = call.Transform
	}
	return merged
}

// Ptr returns a pointer to v, for the pointer-valued CallOptions fields.
func Ptr[T any](v T) *T {
	return &v
}
