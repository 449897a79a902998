package queue

import (
	"os"

	"filesmanager/core"
	"filesmanager/queue/memory"
	"filesmanager/queue/redis"

	"github.com/sirupsen/logrus"
)

// GetQueue selects the thumbnail job queue from the environment. With
// REDIS_ADDR set the queue is a Redis list shared between the server
// and a separate worker process. Without it the queue is an in-process
// channel, and the server must run the worker itself.
func GetQueue() core.JobQueue {
	addr := os.Getenv("REDIS_ADDR")
	if addr != "" {
		logrus.WithField("addr", addr).Info("Use redis job queue")
		return redis.NewQueue(addr)
	}
	logrus.Info("Use in-memory job queue")
	return memory.NewQueue()
}

// InProcess reports whether the configured queue is confined to a
// single process.
func InProcess() bool {
	return os.Getenv("REDIS_ADDR") == ""
}
