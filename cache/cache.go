package cache

import (
	"os"

	"filesmanager/cache/memory"
	"filesmanager/cache/redis"
	"filesmanager/core"

	"github.com/sirupsen/logrus"
)

// GetCache selects the session cache from the environment. When
// REDIS_ADDR is set sessions live in Redis with native key expiry;
// otherwise an in-process cache is used, which is only suitable for a
// single-instance deployment.
func GetCache() core.SessionStore {
	addr := os.Getenv("REDIS_ADDR")
	if addr != "" {
		logrus.WithField("addr", addr).Info("Use redis session cache")
		return redis.NewCache(addr)
	}
	logrus.Info("Use in-memory session cache")
	return memory.NewCache()
}
