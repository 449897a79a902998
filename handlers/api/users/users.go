package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"filesmanager/auth"
	"filesmanager/core"
	"filesmanager/middleware"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type newUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandlePostNew serves POST /users: account signup.
func HandlePostNew(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req newUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		user, err := svc.Register(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, core.ErrMissingEmail) ||
				errors.Is(err, core.ErrMissingPassword) ||
				errors.Is(err, core.ErrUserExists) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, map[string]string{"error": err.Error()})
				return
			}
			logrus.WithField("email", req.Email).WithError(err).Error("Failed to create user")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "Internal server error"})
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, map[string]string{"id": user.ID, "email": user.Email})
	}
}

// HandleGetMe serves GET /users/me for a token-authenticated caller.
func HandleGetMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": core.ErrUnauthorized.Error()})
			return
		}
		render.JSON(w, r, map[string]string{"id": user.ID, "email": user.Email})
	}
}
