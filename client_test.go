/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gridstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/recordstore"
	"github.com/suparena/gridstore/recordstore/mock"
)

func newTestClient(t *testing.T) (*Client, *mock.Store) {
	t.Helper()
	store := mock.New("appTest")
	client, err := New(Options{
		AccessKey:         "keyTest",
		BaseID:            "appTest",
		Table:             "Contacts",
		RequestsPerSecond: 1000, // keep bulk tests fast
	}, store)
	require.NoError(t, err)
	return client, store
}

func TestCreateScalarCollapse(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	// Scalar input returns a bare record.
	rec, err := client.Create(ctx, map[string]any{"Name": "Ada"})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Ada", rec.Get("Name"))

	// A one-element batch returns a one-element slice.
	recs, err := client.CreateAll(ctx, []map[string]any{{"Name": "Grace"}})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Grace", recs[0].Get("Name"))
}

func TestCreateEmptyInput(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)

	_, err := client.Create(ctx, nil)
	assert.True(t, errors.IsEmptyInput(err))

	_, err = client.CreateAll(ctx, nil)
	assert.True(t, errors.IsEmptyInput(err))

	_, err = client.CreateAll(ctx, []map[string]any{})
	assert.True(t, errors.IsEmptyInput(err))

	assert.Equal(t, 0, store.CreateCalls())
}

func TestCreateAllChunksAndPreservesOrder(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)

	records := make([]map[string]any, 25)
	for i := range records {
		records[i] = map[string]any{"N": i}
	}

	recs, err := client.CreateAll(ctx, records, &CallOptions{Concurrency: 4})
	require.NoError(t, err)
	require.Len(t, recs, 25)
	assert.Equal(t, 3, store.CreateCalls(), "25 records should go out in 3 chunks")
	for i, r := range recs {
		assert.Equal(t, i, r.Get("N"), "results must keep input order")
	}
}

func TestResolveRejectsMissingTarget(t *testing.T) {
	ctx := context.Background()
	store := mock.New("appTest")

	client, err := New(Options{AccessKey: "keyTest", BaseID: "appTest"}, store)
	require.NoError(t, err)
	_, err = client.Create(ctx, map[string]any{"Name": "Ada"})
	assert.True(t, errors.IsInvalidConfiguration(err), "missing table must be rejected")

	client, err = New(Options{BaseID: "appTest", Table: "Contacts"}, store)
	require.NoError(t, err)
	_, err = client.Create(ctx, map[string]any{"Name": "Ada"})
	assert.True(t, errors.IsInvalidConfiguration(err), "missing access key must be rejected")

	// The call-time override can supply the missing pieces.
	client, err = New(Options{AccessKey: "keyTest", BaseID: "appTest"}, store)
	require.NoError(t, err)
	_, err = client.Create(ctx, map[string]any{"Name": "Ada"}, Table("Contacts"))
	assert.NoError(t, err)
}

func TestPerCallOverrideLeavesDefaultsUntouched(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)

	_, err := client.Create(ctx, map[string]any{"Name": "Ada"}, Table("Inventory"))
	require.NoError(t, err)

	assert.Equal(t, "Contacts", client.Defaults().Table)
	assert.Equal(t, 1, store.Len("Inventory"))
	assert.Equal(t, 0, store.Len("Contacts"))
}

func TestHandleReuseAcrossCalls(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)

	_, err := client.Create(ctx, map[string]any{"Name": "Ada"})
	require.NoError(t, err)
	_, err = client.Create(ctx, map[string]any{"Name": "Grace"})
	require.NoError(t, err)
	assert.Equal(t, 1, store.ConnectCalls(), "stable credential and base reuse one handle")

	_, err = client.Create(ctx, map[string]any{"Name": "Edith"}, &CallOptions{AccessKey: "keyOther"})
	require.NoError(t, err)
	assert.Equal(t, 2, store.ConnectCalls(), "a rotated credential mints a new handle")

	// Rotating back hits the cached handle, not the connector.
	_, err = client.Create(ctx, map[string]any{"Name": "Jean"})
	require.NoError(t, err)
	assert.Equal(t, 2, store.ConnectCalls())
}

func TestShapeNormalization(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	plain, err := client.Create(ctx, map[string]any{"Name": "Ada"})
	require.NoError(t, err)
	assert.False(t, plain.Bound(), "default shape is the flattened projection")

	rich, err := client.Create(ctx, map[string]any{"Name": "Grace"}, &CallOptions{Shape: Ptr(ShapeRich)})
	require.NoError(t, err)
	require.True(t, rich.Bound())

	rich.Set("Name", "Grace Hopper")
	require.NoError(t, rich.Save(ctx))
	found, err := client.Find(ctx, rich.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", found.Get("Name"))
}

func TestKeyCasingNormalization(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	rec, err := client.Create(ctx, map[string]any{"First Name": "Ada"}, &CallOptions{KeyCasing: Ptr(KeyCasingCamel)})
	require.NoError(t, err)
	assert.Equal(t, "Ada", rec.Get("firstName"))
	assert.Nil(t, rec.Get("First Name"))
}

func TestFindNotFound(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	_, err := client.Find(ctx, "recMissing")
	assert.True(t, errors.IsNotFound(err))

	_, err = client.Find(ctx, "")
	assert.True(t, errors.IsMissingArguments(err))
}

func TestUpdateAndReplaceSemantics(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	rec, err := client.Create(ctx, map[string]any{"Name": "Ada", "Age": 36})
	require.NoError(t, err)

	updated, err := client.Update(ctx, rec.ID, map[string]any{"Name": "Ada L."})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Get("Name"))
	assert.Equal(t, 36, updated.Get("Age"), "partial update retains unnamed fields")

	replaced, err := client.Replace(ctx, rec.ID, map[string]any{"Name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", replaced.Get("Name"))
	assert.Nil(t, replaced.Get("Age"), "replace clears unnamed fields")

	_, err = client.Update(ctx, rec.ID, nil)
	assert.True(t, errors.IsEmptyInput(err))
	_, err = client.Update(ctx, "", map[string]any{"Name": "x"})
	assert.True(t, errors.IsMissingArguments(err))
}

func TestUpdateWhere(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)
	store.Seed("Contacts",
		map[string]any{"Name": "Ada", "Active": true},
		map[string]any{"Name": "Grace", "Active": true},
		map[string]any{"Name": "Edith", "Active": false},
	)

	updated, err := client.UpdateWhere(ctx, "Active = TRUE()", map[string]any{"Tier": "gold"})
	require.NoError(t, err)
	assert.Len(t, updated, 2)
	assert.Equal(t, 1, store.UpdateCalls(), "two matches fit one chunk")
	for _, r := range updated {
		assert.Equal(t, "gold", r.Get("Tier"))
	}

	// No matches issues no writes.
	none, err := client.UpdateWhere(ctx, "Name = 'Nobody'", map[string]any{"Tier": "gold"})
	require.NoError(t, err)
	assert.Nil(t, none)
	assert.Equal(t, 1, store.UpdateCalls())
}

func TestDeleteChunking(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)

	var ids []string
	for i := 0; i < 12; i++ {
		rec := store.Seed("Contacts", map[string]any{"N": i})[0]
		ids = append(ids, rec.ID)
	}

	deleted, err := client.DeleteAll(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, ids, deleted)
	assert.Equal(t, 2, store.DestroyCalls(), "12 IDs should go out in 2 chunks")
	assert.Equal(t, 0, store.Len("Contacts"))
}

func TestDeleteAllEmptyIssuesNoCalls(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)

	deleted, err := client.DeleteAll(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, deleted)
	assert.Equal(t, 0, store.DestroyCalls())
}

func TestDeleteInvalidID(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	err := client.Delete(ctx, "recMissing")
	assert.True(t, errors.IsNotFound(err))

	err = client.Delete(ctx, "")
	assert.True(t, errors.IsMissingArguments(err))
}

func TestDeleteWhereAndTruncate(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)
	store.Seed("Contacts",
		map[string]any{"Name": "Ada", "Active": true},
		map[string]any{"Name": "Grace", "Active": false},
		map[string]any{"Name": "Edith", "Active": false},
	)

	deleted, err := client.DeleteWhere(ctx, "Active = FALSE()")
	require.NoError(t, err)
	assert.Len(t, deleted, 2)
	assert.Equal(t, 1, store.Len("Contacts"))

	deleted, err = client.Truncate(ctx)
	require.NoError(t, err)
	assert.Len(t, deleted, 1)
	assert.Equal(t, 0, store.Len("Contacts"))
}

func TestAppendTable(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)
	store.Seed("Source",
		map[string]any{"Name": "Ada", "Secret": "x"},
		map[string]any{"Name": "Grace", "Secret": "y"},
	)

	copied, err := client.AppendTable(ctx,
		TableSpec{Table: "Source", Fields: []string{"Name"}},
		TableSpec{Table: "Dest"},
	)
	require.NoError(t, err)
	require.Len(t, copied, 2)
	assert.Equal(t, 2, store.Len("Dest"))
	assert.Equal(t, "Ada", copied[0].Get("Name"))
	assert.Nil(t, copied[0].Get("Secret"), "projection drops unselected columns")

	// Empty source copies nothing.
	none, err := client.AppendTable(ctx, TableSpec{Table: "Empty"}, TableSpec{Table: "Dest"})
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestOverwriteTable(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)
	store.Seed("Source", map[string]any{"Name": "Ada"})
	store.Seed("Dest", map[string]any{"Name": "Old1"}, map[string]any{"Name": "Old2"})

	copied, err := client.OverwriteTable(ctx, TableSpec{Table: "Source"}, TableSpec{Table: "Dest"})
	require.NoError(t, err)
	require.Len(t, copied, 1)
	assert.Equal(t, 1, store.Len("Dest"))
}

func TestUpsertCreatePath(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)

	out, err := client.Upsert(ctx, "Email", map[string]any{"Email": "ada@example.com", "Name": "Ada"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Ada", out[0].Get("Name"))
	assert.Equal(t, 1, store.CreateCalls(), "zero matches issues exactly one create")
	assert.Equal(t, 0, store.UpdateCalls())
}

func TestUpsertUpdatePath(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)
	seeded := store.Seed("Contacts", map[string]any{"Email": "ada@example.com", "Name": "Ada"})

	out, err := client.Upsert(ctx, "Email", map[string]any{"Email": "ada@example.com", "Name": "Ada L."})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, seeded[0].ID, out[0].ID, "the existing match is updated in place")
	assert.Equal(t, "Ada L.", out[0].Get("Name"))
	assert.Equal(t, 0, store.CreateCalls())
	assert.Equal(t, 1, store.UpdateCalls(), "one match issues exactly one update")
}

func TestUpsertMissingArguments(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)

	_, err := client.Upsert(ctx, "", map[string]any{"Email": "x"})
	assert.True(t, errors.IsMissingArguments(err))

	_, err = client.Upsert(ctx, "Email", nil)
	assert.True(t, errors.IsMissingArguments(err))
}

func TestListTransformSemantics(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)
	store.Seed("Contacts",
		map[string]any{"Name": "Ada"},
		map[string]any{"Name": "Grace"},
		map[string]any{"Name": "Edith"},
	)

	// A transform that drops everything is ignored: the untransformed
	// records come back.
	recs, err := client.List(ctx, nil, &CallOptions{
		Transform: func(r *recordstore.Record) *recordstore.Record { return nil },
	})
	require.NoError(t, err)
	assert.Len(t, recs, 3)

	// A selective transform replaces the set with only its results.
	recs, err = client.List(ctx, nil, &CallOptions{
		Transform: func(r *recordstore.Record) *recordstore.Record {
			if r.Get("Name") == "Grace" {
				out := r.Flatten()
				out.Set("Honorific", "RADM")
				return out
			}
			return nil
		},
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Grace", recs[0].Get("Name"))
	assert.Equal(t, "RADM", recs[0].Get("Honorific"))
}

func TestListDrainsPages(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)
	for i := 0; i < 7; i++ {
		store.Seed("Contacts", map[string]any{"N": i})
	}

	recs, err := client.List(ctx, &recordstore.QueryParams{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, recs, 7)
	assert.Equal(t, 4, store.SelectCalls(), "seven records at page size two is four pages")
	for i, r := range recs {
		assert.Equal(t, i, r.Get("N"))
	}
}

func TestStream(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)
	for i := 0; i < 5; i++ {
		store.Seed("Contacts", map[string]any{"N": i})
	}

	var progressCalls int
	results := client.Stream(ctx, nil, nil,
		recordstore.WithPageSize(2),
		recordstore.WithBufferSize(1),
		recordstore.WithProgressHandler(func(p recordstore.StreamProgress) {
			progressCalls++
		}),
	)

	var got []int
	for res := range results {
		require.NoError(t, res.Error)
		got = append(got, res.Record.Get("N").(int))
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Equal(t, 3, progressCalls, "one progress report per page")
}

func TestStreamSurfacesResolveError(t *testing.T) {
	ctx := context.Background()
	store := mock.New("appTest")
	client, err := New(Options{AccessKey: "keyTest", BaseID: "appTest"}, store)
	require.NoError(t, err)

	results := client.Stream(ctx, nil, nil)
	res, ok := <-results
	require.True(t, ok)
	assert.True(t, errors.IsInvalidConfiguration(res.Error))
	_, ok = <-results
	assert.False(t, ok, "channel closes after the error result")
}

func TestBulkFailurePropagates(t *testing.T) {
	ctx := context.Background()
	client, store := newTestClient(t)
	boom := fmt.Errorf("store is down")
	store.WithCreateError(boom)

	records := make([]map[string]any, 15)
	for i := range records {
		records[i] = map[string]any{"N": i}
	}
	_, err := client.CreateAll(ctx, records)
	assert.ErrorIs(t, err, boom)
}
