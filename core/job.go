package core

import "context"

type (
	// ThumbnailJob asks the worker to render resized copies of an
	// uploaded image. Name is a human-readable label for logs.
	ThumbnailJob struct {
		UserID string `json:"userId"`
		FileID string `json:"fileId"`
		Name   string `json:"name"`
	}

	// JobQueue carries thumbnail jobs from the upload path to the
	// worker. Enqueue is fire-and-forget: it returns once the job is
	// handed to the queue, independent of worker completion. Delivery
	// is at-least-once, so handlers must be idempotent.
	JobQueue interface {
		Enqueue(ctx context.Context, job ThumbnailJob) error

		// Consume blocks, invoking handler for each dequeued job until
		// ctx is canceled. A handler error marks the job failed; it is
		// logged, not retried by the consumer.
		Consume(ctx context.Context, handler func(context.Context, ThumbnailJob) error) error
	}
)
