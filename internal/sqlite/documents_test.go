package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/backoffice/internal/docstore"
	"github.com/stretchr/testify/require"
)

var testNS = docstore.Namespace{TenantID: "app1", UserID: "user1"}

func newTestStore(t *testing.T) *DocumentStore {
	t.Helper()
	store := NewDocumentStore(NewTestDB(t), nil)
	t.Cleanup(store.Close)
	return store
}

func nextSnapshot(t *testing.T, sub *docstore.Subscription) docstore.Snapshot {
	t.Helper()
	select {
	case snap := <-sub.Updates():
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return docstore.Snapshot{}
	}
}

func TestDocumentStore_CreateGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, testNS, "projects", docstore.Fields{"name": "Launch"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := store.Get(ctx, testNS, "projects", id)
	require.NoError(t, err)
	require.Equal(t, id, doc.ID)
	require.Equal(t, "Launch", doc.Fields["name"])
}

func TestDocumentStore_UpdateMerges(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, testNS, "tasks", docstore.Fields{"title": "Draft script", "status": "To Do"})
	require.NoError(t, err)

	require.NoError(t, store.Update(ctx, testNS, "tasks", id, docstore.Fields{"status": "Done"}))

	doc, err := store.Get(ctx, testNS, "tasks", id)
	require.NoError(t, err)
	require.Equal(t, "Draft script", doc.Fields["title"])
	require.Equal(t, "Done", doc.Fields["status"])

	err = store.Update(ctx, testNS, "tasks", "missing", docstore.Fields{"status": "Done"})
	require.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestDocumentStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, testNS, "contacts", docstore.Fields{"name": "Ana"})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, testNS, "contacts", id))

	_, err = store.Get(ctx, testNS, "contacts", id)
	require.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestDocumentStore_NamespaceIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, testNS, "contacts", docstore.Fields{"name": "Ana"})
	require.NoError(t, err)

	other := docstore.Namespace{TenantID: "app1", UserID: "user2"}
	_, err = store.Get(ctx, other, "contacts", id)
	require.ErrorIs(t, err, docstore.ErrNotFound)

	_, err = store.Create(ctx, docstore.Namespace{TenantID: "app1"}, "contacts", docstore.Fields{})
	require.ErrorIs(t, err, docstore.ErrInvalidNamespace)
}

func TestDocumentStore_SubscribePushesFullSnapshots(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sub, err := store.Subscribe(ctx, testNS, docstore.Query{Collection: "transactions"})
	require.NoError(t, err)
	defer sub.Close()

	require.Empty(t, nextSnapshot(t, sub).Docs)

	first, err := store.Create(ctx, testNS, "transactions", docstore.Fields{"description": "Sponsorship", "amount": 500})
	require.NoError(t, err)
	snap := nextSnapshot(t, sub)
	require.Len(t, snap.Docs, 1)

	second, err := store.Create(ctx, testNS, "transactions", docstore.Fields{"description": "Software", "amount": 20})
	require.NoError(t, err)
	snap = nextSnapshot(t, sub)
	require.Len(t, snap.Docs, 2)
	require.Equal(t, first, snap.Docs[0].ID)
	require.Equal(t, second, snap.Docs[1].ID)
	require.Equal(t, float64(20), snap.Docs[1].Fields["amount"])
}

func TestDocumentStore_SubscribeWithFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, testNS, "tasks", docstore.Fields{"title": "A", "projectId": "p1"})
	require.NoError(t, err)
	_, err = store.Create(ctx, testNS, "tasks", docstore.Fields{"title": "B", "projectId": "p2"})
	require.NoError(t, err)

	sub, err := store.Subscribe(ctx, testNS, docstore.Query{
		Collection: "tasks",
		Filters:    []docstore.Filter{{Field: "projectId", Value: "p2"}},
	})
	require.NoError(t, err)
	defer sub.Close()

	snap := nextSnapshot(t, sub)
	require.NoError(t, snap.Err)
	require.Len(t, snap.Docs, 1)
	require.Equal(t, "B", snap.Docs[0].Fields["title"])
}
