package memory

import (
	"context"
	"errors"

	"filesmanager/core"

	"github.com/sirupsen/logrus"
)

// memQueue is a channel-backed job queue confined to one process. The
// server runs the thumbnail worker on a goroutine when this queue is
// selected.
type memQueue struct {
	jobs chan core.ThumbnailJob
}

// NewQueue creates a new in-process job queue.
func NewQueue() *memQueue {
	return &memQueue{jobs: make(chan core.ThumbnailJob, 128)}
}

func (q *memQueue) Enqueue(ctx context.Context, job core.ThumbnailJob) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.New("job queue is full")
	}
}

func (q *memQueue) Consume(ctx context.Context, handler func(context.Context, core.ThumbnailJob) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-q.jobs:
			if err := handler(ctx, job); err != nil {
				logrus.WithFields(logrus.Fields{
					"file_id": job.FileID,
					"user_id": job.UserID,
					"name":    job.Name,
				}).WithError(err).Error("Thumbnail job failed")
			}
		}
	}
}
