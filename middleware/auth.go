package middleware

import (
	"context"
	"net/http"

	"filesmanager/auth"
	"filesmanager/core"

	"github.com/go-chi/render"
)

type contextKey string

// UserContextKey holds the authenticated *core.User for a request.
const UserContextKey = contextKey("user")

// UserFrom extracts the authenticated user from a request context.
// The second return is false for anonymous requests.
func UserFrom(ctx context.Context) (*core.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*core.User)
	return user, ok
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]string{"error": core.ErrUnauthorized.Error()})
}

// BasicAuth authenticates a request via the Authorization header's
// Basic credentials and stores the user in the request context.
func BasicAuth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := svc.AuthenticateBasic(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				unauthorized(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenAuth authenticates a request via the X-Token session header and
// stores the user in the request context.
func TokenAuth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := svc.AuthenticateToken(r.Context(), r.Header.Get("X-Token"))
			if err != nil {
				unauthorized(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalTokenAuth attaches a user to the context when a valid X-Token
// header is present but lets anonymous requests through. Used for the
// content endpoint, where visibility decides access.
func OptionalTokenAuth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, err := svc.AuthenticateToken(r.Context(), r.Header.Get("X-Token")); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), UserContextKey, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}
