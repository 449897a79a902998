package blob

import (
	"context"
	"os"
	"path/filepath"

	"filesmanager/blob/filesystem"
	"filesmanager/blob/s3"

	"github.com/sirupsen/logrus"
)

// Store persists raw file payloads outside the metadata records. A
// reference is an opaque storage path: an absolute filesystem path or
// an S3 object key, depending on the backend.
type Store interface {
	// Create writes data under a freshly generated unique reference
	// and returns that reference.
	Create(ctx context.Context, data []byte) (string, error)

	// Read returns the payload at ref. Missing blobs, including
	// references that point at something other than a stored blob,
	// yield core.ErrNotFound.
	Read(ctx context.Context, ref string) ([]byte, error)

	// Write stores data at an exact reference, overwriting any
	// previous content. Used by the thumbnail worker to place derived
	// copies beside the original.
	Write(ctx context.Context, ref string, data []byte) error
}

// GetStore selects the blob store from the environment. S3 when
// S3_BUCKET_NAME is set; otherwise the local filesystem rooted at
// FOLDER_PATH, falling back to a subdirectory of the system temp dir.
func GetStore() Store {
	if bucket := os.Getenv("S3_BUCKET_NAME"); bucket != "" {
		logrus.WithField("bucket", bucket).Info("Use s3 blob storage")
		return s3.NewStore(bucket)
	}

	basePath := os.Getenv("FOLDER_PATH")
	if basePath == "" {
		basePath = filepath.Join(os.TempDir(), "files_manager")
	}
	logrus.WithField("basePath", basePath).Info("Use filesystem blob storage")
	return filesystem.NewStore(basePath)
}
