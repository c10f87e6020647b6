package storage

import (
	leveldb "github.com/ipfs/go-ds-leveldb"
	"github.com/pkg/errors"
)

// NewLevelDBStorage opens (or creates) a leveldb store at path.
func NewLevelDBStorage(path string) (*DatastoreAdapter, error) {
	db, err := leveldb.NewDatastore(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open leveldb at %s", path)
	}
	log.Infof("open wallet connection store at %s", path)
	return NewDatastoreAdapter(db), nil
}
