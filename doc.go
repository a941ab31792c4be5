/*
Package gridstore is a convenience client for Airtable-style tabular-data
APIs: records organized into bases and tables, each record a map of
column name to value.

On top of the raw REST surface it provides create/read/update/replace/
delete, bulk-by-predicate helpers, table-to-table copy, upsert and
truncate, and manages the cross-cutting concerns those operations share:
  - Per-call configuration override: a client holds immutable instance
    defaults; any call can transiently override a subset via CallOptions
    without touching shared state.
  - Chunking: bulk writes are split into provider-sized batches of at
    most 10 records.
  - Rate limiting: outbound calls are admitted at the provider ceiling
    of 5 per second, shared across the whole client.
  - Bounded concurrency: chunks fan out with a configurable in-flight
    bound while results keep input order.
  - Response normalization: plain or table-bound record shapes and
    optional camel-casing of field keys.

Basic Usage:

	client, _ := gridstore.New(gridstore.Options{
	    AccessKey: os.Getenv(gridstore.EnvAccessKey),
	    BaseID:    "appXXXXXXXXXXXXXX",
	    Table:     "Contacts",
	}, rest.NewConnector())

	rec, err := client.Create(ctx, map[string]any{"Name": "Ada"})
	recs, err := client.List(ctx, &recordstore.QueryParams{MaxRecords: 50})
	rec, err = client.Update(ctx, rec.ID, map[string]any{"Name": "Ada L."},
	    gridstore.Table("Archive"))

Bulk operations are not transactional: a failed batch may leave the
remote table partially modified, and the bulk-by-predicate helpers read
and write in separate requests with last-write-wins semantics.
*/
package gridstore
