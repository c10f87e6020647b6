package storage

import (
	"context"

	ds "github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"

	"github.com/ipfs-force-community/sophon-walletkit/types"
)

var log = logging.Logger("storage")

var _ types.StorageAdapter = (*DatastoreAdapter)(nil)

// KeyPrefix namespaces every stored key inside the backend.
var KeyPrefix = ds.NewKey("/walletconn")

// DatastoreAdapter persists string values in a go-datastore backend.
type DatastoreAdapter struct {
	ds ds.Datastore
}

func NewDatastoreAdapter(d ds.Batching) *DatastoreAdapter {
	return &DatastoreAdapter{ds: namespace.Wrap(d, KeyPrefix)}
}

func (a *DatastoreAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := a.ds.Get(ctx, ds.NewKey(key))
	if err != nil {
		if errors.Is(err, ds.ErrNotFound) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "get %s", key)
	}
	return string(data), true, nil
}

func (a *DatastoreAdapter) Set(ctx context.Context, key string, value string) error {
	dsKey := ds.NewKey(key)
	if err := a.ds.Put(ctx, dsKey, []byte(value)); err != nil {
		return errors.Wrapf(err, "put %s", key)
	}
	return a.ds.Sync(ctx, dsKey)
}

func (a *DatastoreAdapter) Remove(ctx context.Context, key string) error {
	if err := a.ds.Delete(ctx, ds.NewKey(key)); err != nil && !errors.Is(err, ds.ErrNotFound) {
		return errors.Wrapf(err, "delete %s", key)
	}
	return nil
}

// Check verifies the backend answers reads; used by the health endpoint.
func (a *DatastoreAdapter) Check(ctx context.Context) error {
	_, err := a.ds.Has(ctx, ds.NewKey("/healthcheck"))
	return err
}

func (a *DatastoreAdapter) Close() error {
	return a.ds.Close()
}
