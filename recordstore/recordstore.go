/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package recordstore

import (
	"context"
)

// Connector mints connection handles. A handle is bound to one
// (access key, base ID) pair for its whole lifetime; credential or base
// rotation means minting a new handle, never mutating an existing one.
type Connector interface {
	Connect(accessKey, baseID string) (Handle, error)
}

// Handle is an opaque connection to one base of the remote store. All
// methods issue a single outbound request; batch sizing and rate
// limiting are the caller's concern.
type Handle interface {
	// BaseID returns the base this handle is bound to.
	BaseID() string

	// Create inserts one batch of records and returns them with
	// store-assigned IDs and creation times.
	Create(ctx context.Context, table string, fields []map[string]any, opts WriteOptions) ([]*Record, error)

	// Update applies one batch of partial updates. Fields absent from a
	// change are retained on the remote record.
	Update(ctx context.Context, table string, changes []Change, opts WriteOptions) ([]*Record, error)

	// Replace applies one batch of full overwrites. Fields absent from a
	// change are cleared on the remote record.
	Replace(ctx context.Context, table string, changes []Change, opts WriteOptions) ([]*Record, error)

	// Destroy deletes one batch of records by ID and returns the deleted IDs.
	Destroy(ctx context.Context, table string, ids []string) ([]string, error)

	// Find fetches a single record by ID.
	Find(ctx context.Context, table, id string) (*Record, error)

	// SelectPage fetches one page of a query. Pass the previous page's
	// Offset to continue; an empty returned Offset means the last page.
	SelectPage(ctx context.Context, table string, params *QueryParams, offset string) (*Page, error)
}

// SelectAll drains every page of a query and concatenates the records
// in store order.
func SelectAll(ctx context.Context, h Handle, table string, params *QueryParams) ([]*Record, error) {
	var all []*Record
	offset := ""
	for {
		page, err := h.SelectPage(ctx, table, params, offset)
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
