package filesystem

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"filesmanager/core"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

type fsStore struct {
	basePath string
}

// NewStore creates a filesystem-based blob store rooted at basePath.
func NewStore(basePath string) *fsStore {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		log.Fatalf("failed to create base directory: %v", err)
	}
	return &fsStore{basePath: basePath}
}

func (s *fsStore) Create(ctx context.Context, data []byte) (string, error) {
	ref := filepath.Join(s.basePath, ulid.Make().String())
	log := logrus.WithFields(logrus.Fields{
		"path":        ref,
		"data_length": len(data),
	})

	if err := os.WriteFile(ref, data, 0644); err != nil {
		log.WithError(err).Error("Failed to write blob")
		return "", err
	}
	log.Debug("Blob written")
	return ref, nil
}

func (s *fsStore) Read(ctx context.Context, ref string) ([]byte, error) {
	info, err := os.Stat(ref)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrNotFound
		}
		logrus.WithField("path", ref).WithError(err).Error("Failed to stat blob")
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, core.ErrNotFound
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		logrus.WithField("path", ref).WithError(err).Error("Failed to read blob")
		return nil, err
	}
	return data, nil
}

func (s *fsStore) Write(ctx context.Context, ref string, data []byte) error {
	if err := os.WriteFile(ref, data, 0644); err != nil {
		logrus.WithField("path", ref).WithError(err).Error("Failed to write blob")
		return err
	}
	return nil
}
