package storage

import (
	"context"
	"testing"

	ds "github.com/ipfs/go-datastore"
	dss "github.com/ipfs/go-datastore/sync"
	"github.com/stretchr/testify/require"
)

const testKey = "sui-dapp-kit:wallet-connection-info"

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	_, ok, err := store.Get(ctx, testKey)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, testKey, "value"))
	value, ok, err := store.Get(ctx, testKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value", value)

	require.NoError(t, store.Set(ctx, testKey, "value2"))
	value, _, err = store.Get(ctx, testKey)
	require.NoError(t, err)
	require.Equal(t, "value2", value)

	require.NoError(t, store.Remove(ctx, testKey))
	_, ok, err = store.Get(ctx, testKey)
	require.NoError(t, err)
	require.False(t, ok)

	// removing a missing key is not an error
	require.NoError(t, store.Remove(ctx, testKey))
	require.NoError(t, store.Check(ctx))
}

func TestLevelDBStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(TypeLevelDB, dir, "")
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, testKey, `{"walletName":"Sui Wallet","accountAddress":"0x1"}`))
	require.NoError(t, store.Close())

	store, err = Open(TypeLevelDB, dir, "")
	require.NoError(t, err)
	defer store.Close() //nolint

	value, ok, err := store.Get(ctx, testKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"walletName":"Sui Wallet","accountAddress":"0x1"}`, value)

	require.NoError(t, store.Remove(ctx, testKey))
	_, ok, err = store.Get(ctx, testKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDatastoreAdapterNamespace(t *testing.T) {
	ctx := context.Background()
	backend := dss.MutexWrap(ds.NewMapDatastore())
	require.NoError(t, backend.Put(ctx, ds.NewKey(testKey), []byte("other")))

	store := NewDatastoreAdapter(backend)
	_, ok, err := store.Get(ctx, testKey)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, testKey, "value"))
	raw, err := backend.Get(ctx, KeyPrefix.Child(ds.NewKey(testKey)))
	require.NoError(t, err)
	require.Equal(t, "value", string(raw))

	// keys outside the namespace are untouched
	require.NoError(t, store.Remove(ctx, testKey))
	raw, err = backend.Get(ctx, ds.NewKey(testKey))
	require.NoError(t, err)
	require.Equal(t, "other", string(raw))
}

func TestOpen(t *testing.T) {
	store, err := Open(TypeMemory, "", "")
	require.NoError(t, err)
	require.NotNil(t, store)

	_, err = Open("redis", "", "")
	require.EqualError(t, err, "unsupported storage type redis")
}
