package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"filesmanager/auth"
	cachememory "filesmanager/cache/memory"
	"filesmanager/middleware"
	storememory "filesmanager/stores/memory"
)

func TestConnectDisconnect(t *testing.T) {
	svc := auth.NewService(storememory.NewStore(), cachememory.NewCache())
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Connect: BasicAuth middleware has already resolved the user.
	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, user))
	rec := httptest.NewRecorder()
	HandleConnect(svc)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("connect status = %d (%s)", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	token := resp["token"]
	if token == "" {
		t.Fatal("empty token")
	}

	if _, err := svc.AuthenticateToken(ctx, token); err != nil {
		t.Fatalf("token should be live: %v", err)
	}

	// Disconnect revokes the session.
	req = httptest.NewRequest(http.MethodGet, "/disconnect", nil)
	req.Header.Set("X-Token", token)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, user))
	rec = httptest.NewRecorder()
	HandleDisconnect(svc)(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("disconnect status = %d", rec.Code)
	}
	if _, err := svc.AuthenticateToken(ctx, token); err == nil {
		t.Error("token still live after disconnect")
	}
}

func TestConnectWithoutUser(t *testing.T) {
	svc := auth.NewService(storememory.NewStore(), cachememory.NewCache())

	rec := httptest.NewRecorder()
	HandleConnect(svc)(rec, httptest.NewRequest(http.MethodGet, "/connect", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
