package storage

import (
	"fmt"
	"path/filepath"
)

const (
	TypeMemory  = "memory"
	TypeLevelDB = "leveldb"

	// DefaultDir is the leveldb directory name under the repo.
	DefaultDir = "connection"
)

// Open builds the adapter named by storeType. Relative leveldb paths are
// resolved against repo.
func Open(storeType, repo, path string) (*DatastoreAdapter, error) {
	switch storeType {
	case TypeMemory:
		return NewMemoryStorage(), nil
	case TypeLevelDB, "":
		if len(path) == 0 {
			path = DefaultDir
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(repo, path)
		}
		return NewLevelDBStorage(path)
	default:
		return nil, fmt.Errorf("unsupported storage type %s", storeType)
	}
}
