/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package recordstore

// Change is one element of a batch update or replace call.
type Change struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// WriteOptions carry per-request write flags.
type WriteOptions struct {
	// Typecast asks the store to coerce cell values to the column type.
	Typecast bool
}

// SortField orders query results by one column.
type SortField struct {
	Field     string `json:"field" yaml:"field"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty"` // "asc" (default) or "desc"
}

// QueryParams defines parameters for a select operation.
// Used for both regular queries and streaming queries.
type QueryParams struct {
	// FilterByFormula is an optional filter formula.
	FilterByFormula string
	// Fields restricts the returned columns when non-empty.
	Fields []string
	// MaxRecords caps the total number of records across all pages.
	MaxRecords int
	// PageSize defines an optional limit per query page.
	PageSize int
	// Sort orders the results.
	Sort []SortField
	// View scopes the query to a named view.
	View string
	// CellFormat is "json" (default) or "string".
	CellFormat string
	// TimeZone and UserLocale qualify string cell formatting.
	TimeZone   string
	UserLocale string
}

// Page is one page of a select operation.
type Page struct {
	Records []*Record
	// Offset continues the query when non-empty.
	Offset string
}
