package auth

import (
	"net/http"

	"filesmanager/auth"
	"filesmanager/core"
	"filesmanager/middleware"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// HandleConnect serves GET /connect: exchanges Basic credentials
// (already validated by the BasicAuth middleware) for a session token.
func HandleConnect(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": core.ErrUnauthorized.Error()})
			return
		}

		token, err := svc.CreateSession(r.Context(), user)
		if err != nil {
			logrus.WithField("user_id", user.ID).WithError(err).Error("Failed to create session")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Internal server error"})
			return
		}

		render.JSON(w, r, map[string]string{"token": token})
	}
}

// HandleDisconnect serves GET /disconnect: revokes the caller's
// session token. The TokenAuth middleware has already validated it.
func HandleDisconnect(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Token")
		if err := svc.RevokeSession(r.Context(), token); err != nil {
			logrus.WithError(err).Error("Failed to revoke session")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Internal server error"})
			return
		}
		render.NoContent(w, r)
	}
}
