package storage

import (
	ds "github.com/ipfs/go-datastore"
	dss "github.com/ipfs/go-datastore/sync"
)

// NewMemoryStorage returns an adapter backed by a mutex-guarded map.
func NewMemoryStorage() *DatastoreAdapter {
	return NewDatastoreAdapter(dss.MutexWrap(ds.NewMapDatastore()))
}
