package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"filesmanager/auth"
	cachememory "filesmanager/cache/memory"
	storememory "filesmanager/stores/memory"
)

func setup(t *testing.T) (*auth.Service, string) {
	t.Helper()
	svc := auth.NewService(storememory.NewStore(), cachememory.NewCache())
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := svc.CreateSession(ctx, user)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return svc, token
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := UserFrom(r.Context()); ok {
			w.Write([]byte(user.Email))
			return
		}
		w.Write([]byte("anonymous"))
	})
}

func TestBasicAuth(t *testing.T) {
	svc, _ := setup(t)
	handler := BasicAuth(svc)(echoUser())

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("a@x.com:pw1")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "a@x.com" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("a@x.com:wrong")))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", rec.Code)
	}
}

func TestTokenAuth(t *testing.T) {
	svc, token := setup(t)
	handler := TokenAuth(svc)(echoUser())

	req := httptest.NewRequest(http.MethodGet, "/files", nil)
	req.Header.Set("X-Token", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "a@x.com" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/files", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/files", nil)
	req.Header.Set("X-Token", "bogus")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", rec.Code)
	}
}

func TestOptionalTokenAuth(t *testing.T) {
	svc, token := setup(t)
	handler := OptionalTokenAuth(svc)(echoUser())

	// Valid token attaches the user.
	req := httptest.NewRequest(http.MethodGet, "/files/x/data", nil)
	req.Header.Set("X-Token", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Body.String() != "a@x.com" {
		t.Errorf("got %q", rec.Body.String())
	}

	// Missing or invalid tokens still pass through, anonymously.
	for _, tok := range []string{"", "bogus"} {
		req = httptest.NewRequest(http.MethodGet, "/files/x/data", nil)
		if tok != "" {
			req.Header.Set("X-Token", tok)
		}
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
			t.Errorf("token %q: got %d %q", tok, rec.Code, rec.Body.String())
		}
	}
}
