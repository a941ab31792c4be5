/*
Package recordstore defines the capability surface gridstore uses to talk
to the remote tabular-data store.

The two core interfaces are Connector, which mints connection handles
bound to one (access key, base ID) pair, and Handle, which issues single
outbound requests against one base:

	type Handle interface {
	    BaseID() string
	    Create(ctx context.Context, table string, fields []map[string]any, opts WriteOptions) ([]*Record, error)
	    Update(ctx context.Context, table string, changes []Change, opts WriteOptions) ([]*Record, error)
	    Replace(ctx context.Context, table string, changes []Change, opts WriteOptions) ([]*Record, error)
	    Destroy(ctx context.Context, table string, ids []string) ([]string, error)
	    Find(ctx context.Context, table, id string) (*Record, error)
	    SelectPage(ctx context.Context, table string, params *QueryParams, offset string) (*Page, error)
	}

Implementations:
  - rest: HTTP implementation against the provider's REST API
  - mock: In-memory mock implementation for testing

Handles carry no batching or throttling; the gridstore client layers
chunking, rate limiting and concurrency on top of them.
*/
package recordstore
