package stores

import (
	"context"
	"os"

	"filesmanager/core"
	"filesmanager/stores/memory"
	"filesmanager/stores/sqlite"

	"github.com/sirupsen/logrus"
)

// Store is a union interface over the two metadata collections.
type Store interface {
	core.UserStore
	core.FileStore

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

// GetStore selects the metadata store from the environment. Unset or
// unknown STORAGE_TYPE falls back to the in-memory store.
func GetStore() Store {
	storageType := os.Getenv("STORAGE_TYPE")

	storageField := logrus.Fields{
		"storageType": storageType,
	}

	var store Store
	switch storageType {
	case "sqlite":
		dataSourceName := os.Getenv("DATA_SOURCE_NAME")
		if dataSourceName == "" {
			dataSourceName = "files_manager.db" // Default filename
		}
		storageField["dataSourceName"] = dataSourceName
		store = sqlite.NewStore(dataSourceName)
	default:
		store = memory.NewStore()
		storageField["storageType"] = "in-memory"
	}
	logrus.WithFields(storageField).Info("Use metadata storage")
	return store
}
