package files

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	blobfs "filesmanager/blob/filesystem"
	"filesmanager/core"
	"filesmanager/files"
	"filesmanager/middleware"
	storememory "filesmanager/stores/memory"

	"github.com/go-chi/chi/v5"
)

type nopQueue struct{}

func (nopQueue) Enqueue(context.Context, core.ThumbnailJob) error { return nil }
func (nopQueue) Consume(context.Context, func(context.Context, core.ThumbnailJob) error) error {
	return nil
}

func newTestService(t *testing.T) *files.Service {
	t.Helper()
	return files.NewService(storememory.NewStore(), blobfs.NewStore(t.TempDir()), nopQueue{})
}

func authedRequest(req *http.Request, user *core.User) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, user)
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func testUser() *core.User {
	return &core.User{ID: core.NewID(), Email: "a@x.com"}
}

func TestHandleUploadFolder(t *testing.T) {
	svc := newTestService(t)
	user := testUser()

	body := `{"name":"docs","type":"folder"}`
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/files", strings.NewReader(body)), user)
	rec := httptest.NewRecorder()
	HandleUpload(svc)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["type"] != "folder" {
		t.Errorf("type = %v", resp["type"])
	}
	if got, ok := resp["parentId"].(float64); !ok || got != 0 {
		t.Errorf("parentId = %v, want 0", resp["parentId"])
	}
	if resp["userId"] != user.ID {
		t.Errorf("userId = %v, want %s", resp["userId"], user.ID)
	}
}

func TestHandleUploadImage(t *testing.T) {
	svc := newTestService(t)
	user := testUser()

	payload := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))
	body, _ := json.Marshal(map[string]any{
		"name": "cat.png", "type": "image", "parentId": 0, "data": payload,
	})
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/files", bytes.NewReader(body)), user)
	rec := httptest.NewRecorder()
	HandleUpload(svc)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["type"] != "image" {
		t.Errorf("type = %v", resp["type"])
	}
	if got, ok := resp["parentId"].(float64); !ok || got != 0 {
		t.Errorf("parentId = %v, want 0", resp["parentId"])
	}
}

func TestHandleUploadValidation(t *testing.T) {
	svc := newTestService(t)
	user := testUser()

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"type":"folder"}`, "Missing name"},
		{"missing type", `{"name":"a"}`, "Missing type"},
		{"bad type", `{"name":"a","type":"document"}`, "Missing type"},
		{"missing data", `{"name":"a","type":"file"}`, "Missing data"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := authedRequest(httptest.NewRequest(http.MethodPost, "/files", strings.NewReader(c.body)), user)
			rec := httptest.NewRecorder()
			HandleUpload(svc)(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var resp map[string]string
			json.NewDecoder(rec.Body).Decode(&resp)
			if resp["error"] != c.want {
				t.Errorf("error = %q, want %q", resp["error"], c.want)
			}
		})
	}
}

func TestHandleUploadParentErrors(t *testing.T) {
	svc := newTestService(t)
	user := testUser()

	body, _ := json.Marshal(map[string]any{
		"name": "a", "type": "folder", "parentId": core.NewID(),
	})
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/files", bytes.NewReader(body)), user)
	rec := httptest.NewRecorder()
	HandleUpload(svc)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "Parent not found" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestHandleUploadUnauthenticated(t *testing.T) {
	svc := newTestService(t)

	req := httptest.NewRequest(http.MethodPost, "/files", strings.NewReader(`{"name":"a","type":"folder"}`))
	rec := httptest.NewRecorder()
	HandleUpload(svc)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestHandleShow(t *testing.T) {
	svc := newTestService(t)
	user := testUser()

	node, err := svc.CreateFolder(context.Background(), user, "docs", core.RootParentID, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/files/"+node.ID, nil), user)
	req = withURLParam(req, "id", node.ID)
	rec := httptest.NewRecorder()
	HandleShow(svc)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["id"] != node.ID {
		t.Errorf("id = %v", resp["id"])
	}
}

func TestHandleShowNotFound(t *testing.T) {
	svc := newTestService(t)
	user := testUser()

	for _, id := range []string{core.NewID(), "garbage"} {
		req := authedRequest(httptest.NewRequest(http.MethodGet, "/files/"+id, nil), user)
		req = withURLParam(req, "id", id)
		rec := httptest.NewRecorder()
		HandleShow(svc)(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("id %q: status = %d, want 404", id, rec.Code)
		}
	}
}

func TestHandleIndexEmpty(t *testing.T) {
	svc := newTestService(t)

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/files", nil), testUser())
	rec := httptest.NewRecorder()
	HandleIndex(svc)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// An empty listing is an empty array, not null.
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestHandleSetVisibility(t *testing.T) {
	svc := newTestService(t)
	user := testUser()

	node, err := svc.CreateFolder(context.Background(), user, "docs", core.RootParentID, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := authedRequest(httptest.NewRequest(http.MethodPut, "/files/"+node.ID+"/publish", nil), user)
	req = withURLParam(req, "id", node.ID)
	rec := httptest.NewRecorder()
	HandleSetVisibility(svc, true)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["isPublic"] != true {
		t.Errorf("isPublic = %v", resp["isPublic"])
	}
}

func TestHandleDataPrivateAnonymous(t *testing.T) {
	svc := newTestService(t)
	user := testUser()

	payload := base64.StdEncoding.EncodeToString([]byte("secret"))
	node, err := svc.CreateFile(context.Background(), user, "secret.txt", core.TypeFile, core.RootParentID, false, payload)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// No user in context: a private node reads as absent, not as a
	// permission failure.
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/files/"+node.ID+"/data", nil), "id", node.ID)
	rec := httptest.NewRecorder()
	HandleData(svc)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleDataPublicAnonymous(t *testing.T) {
	svc := newTestService(t)
	user := testUser()
	ctx := context.Background()

	payload := base64.StdEncoding.EncodeToString([]byte("shared"))
	node, err := svc.CreateFile(ctx, user, "shared.txt", core.TypeFile, core.RootParentID, false, payload)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SetVisibility(ctx, user, node.ID, true); err != nil {
		t.Fatalf("publish: %v", err)
	}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/files/"+node.ID+"/data", nil), "id", node.ID)
	rec := httptest.NewRecorder()
	HandleData(svc)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "shared" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}
}

func TestHandleDataFolder(t *testing.T) {
	svc := newTestService(t)
	user := testUser()

	node, err := svc.CreateFolder(context.Background(), user, "docs", core.RootParentID, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/files/"+node.ID+"/data", nil), user)
	req = withURLParam(req, "id", node.ID)
	rec := httptest.NewRecorder()
	HandleData(svc)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "A folder doesn't have content" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestParseParentID(t *testing.T) {
	id := core.NewID()
	cases := []struct {
		raw  string
		want string
	}{
		{"", core.RootParentID},
		{"0", core.RootParentID},
		{`"0"`, core.RootParentID},
		{`""`, core.RootParentID},
		{`"` + id + `"`, id},
	}
	for _, c := range cases {
		var raw json.RawMessage
		if c.raw != "" {
			raw = json.RawMessage(c.raw)
		}
		if got := parseParentID(raw); got != c.want {
			t.Errorf("parseParentID(%s) = %q, want %q", c.raw, got, c.want)
		}
	}
}
