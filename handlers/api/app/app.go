package app

import (
	"net/http"

	"filesmanager/core"
	"filesmanager/stores"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// HandleStatus serves GET /status: liveness of the metadata store and
// the session cache.
func HandleStatus(store stores.Store, sessions core.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]bool{
			"redis": sessions.Ping(r.Context()) == nil,
			"db":    store.Ping(r.Context()) == nil,
		})
	}
}

// HandleStats serves GET /stats: user and file counts.
func HandleStats(store stores.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := store.CountUsers(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Failed to count users")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Internal server error"})
			return
		}
		files, err := store.CountFiles(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Failed to count files")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Internal server error"})
			return
		}
		render.JSON(w, r, map[string]int64{"users": users, "files": files})
	}
}
