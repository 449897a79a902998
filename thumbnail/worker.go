package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"filesmanager/blob"
	"filesmanager/core"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// Widths are the thumbnail sizes rendered for every uploaded image.
var Widths = []int{500, 250, 100}

// Worker consumes thumbnail jobs and renders resized copies of image
// blobs beside the originals, named `<originalPath>_<width>`.
// Rendering is idempotent: redelivered jobs overwrite the same derived
// references.
type Worker struct {
	files core.FileStore
	blobs blob.Store
}

// NewWorker creates a thumbnail worker over the given collaborators.
func NewWorker(files core.FileStore, blobs blob.Store) *Worker {
	return &Worker{files: files, blobs: blobs}
}

// Run consumes jobs from the queue until ctx is canceled. Job failures
// are terminal and logged by the queue; they never propagate to the
// upload path.
func (w *Worker) Run(ctx context.Context, queue core.JobQueue) error {
	logrus.Info("Thumbnail worker started")
	return queue.Consume(ctx, w.Process)
}

// Process renders all thumbnail sizes for one job.
func (w *Worker) Process(ctx context.Context, job core.ThumbnailJob) error {
	if job.FileID == "" {
		return errors.New("missing fileId")
	}
	if job.UserID == "" {
		return errors.New("missing userId")
	}

	log := logrus.WithFields(logrus.Fields{
		"file_id": job.FileID,
		"user_id": job.UserID,
		"name":    job.Name,
	})

	node, err := w.files.GetFileForUser(ctx, job.UserID, job.FileID)
	if err != nil {
		return fmt.Errorf("file not found: %w", err)
	}
	if node.Type != core.TypeImage {
		log.WithField("type", node.Type).Warn("Skipping thumbnail job for non-image node")
		return nil
	}

	data, err := w.blobs.Read(ctx, node.LocalPath)
	if err != nil {
		return fmt.Errorf("read source blob: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	format, err := imaging.FormatFromFilename(node.Name)
	if err != nil {
		format = imaging.PNG
	}

	for _, width := range Widths {
		resized := imaging.Resize(img, width, 0, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, format); err != nil {
			return fmt.Errorf("encode %dpx thumbnail: %w", width, err)
		}

		ref := fmt.Sprintf("%s_%d", node.LocalPath, width)
		if err := w.blobs.Write(ctx, ref, buf.Bytes()); err != nil {
			return fmt.Errorf("write %dpx thumbnail: %w", width, err)
		}
		log.WithFields(logrus.Fields{"width": width, "path": ref}).Info("Thumbnail generated")
	}
	return nil
}
