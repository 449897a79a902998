package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"filesmanager/core"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// queueKey is the Redis list carrying thumbnail jobs.
const queueKey = "thumbnail_generation"

// popTimeout bounds each BRPOP so Consume can observe context
// cancellation between polls.
const popTimeout = 5 * time.Second

type redisQueue struct {
	client *redis.Client
}

// NewQueue creates a Redis-list-backed job queue.
func NewQueue(addr string) *redisQueue {
	return &redisQueue{client: redis.NewClient(&redis.Options{Addr: addr})}
}

func (q *redisQueue) Enqueue(ctx context.Context, job core.ThumbnailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, queueKey, payload).Err()
}

func (q *redisQueue) Consume(ctx context.Context, handler func(context.Context, core.ThumbnailJob) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res, err := q.client.BRPop(ctx, popTimeout, queueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // timed out, poll again
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logrus.WithError(err).Error("Failed to pop job from queue")
			time.Sleep(time.Second)
			continue
		}

		// BRPop returns [key, value].
		var job core.ThumbnailJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			logrus.WithError(err).WithField("payload", res[1]).Error("Discarding malformed job payload")
			continue
		}

		if err := handler(ctx, job); err != nil {
			logrus.WithFields(logrus.Fields{
				"file_id": job.FileID,
				"user_id": job.UserID,
				"name":    job.Name,
			}).WithError(err).Error("Thumbnail job failed")
		}
	}
}
