package attributes_test

import (
	"context"
	"testing"

	"github.com/q-controller/facerecd/src/pkg/attributes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *attributes.LocalStore {
	t.Helper()
	store, err := attributes.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestLocalStoreLookup(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put("results", "alice", []attributes.Attribute{
		{Name: "result", Value: "match"},
		{Name: "confidence", Value: "0.98"},
	}))

	attr, found, err := store.Lookup(ctx, "results", "alice")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, attributes.Attribute{Name: "result", Value: "match"}, attr, "first attribute wins")

	_, found, err = store.Lookup(ctx, "results", "bob")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = store.Lookup(ctx, "other", "alice")
	require.NoError(t, err)
	assert.False(t, found, "items are scoped by domain")
}

func TestLocalStoreEmptyAttributeList(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Put("results", "carol", nil))
	_, found, err := store.Lookup(context.Background(), "results", "carol")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLocalStorePutGetDelete(t *testing.T) {
	store := newStore(t)

	attrs := []attributes.Attribute{{Name: "result", Value: "nomatch"}}
	require.NoError(t, store.Put("results", "dave", attrs))

	got, err := store.Get("results", "dave")
	require.NoError(t, err)
	assert.Equal(t, attrs, got)

	require.NoError(t, store.Delete("results", "dave"))
	got, err = store.Get("results", "dave")
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Error(t, store.Put("", "dave", attrs))
}

func TestLocalStoreLookupWithoutDomain(t *testing.T) {
	store := newStore(t)

	_, _, err := store.Lookup(context.Background(), "", "alice")
	assert.Error(t, err)
}
