package files

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"filesmanager/core"
	"filesmanager/files"
	"filesmanager/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// uploadRequest is the POST /files body. ParentID is a RawMessage
// because clients send either the number 0 or an id string.
type uploadRequest struct {
	Name     string          `json:"name"`
	Type     core.FileType   `json:"type"`
	ParentID json.RawMessage `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Data     string          `json:"data"`
}

// parseParentID normalizes the wire parent value: absent, the number 0
// and the string "0" all mean the root sentinel.
func parseParentID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return core.RootParentID
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" || s == core.RootParentID {
			return core.RootParentID
		}
		return s
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil && n == 0 {
		return core.RootParentID
	}
	// Unusable value; let id validation report it as absent.
	return string(raw)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "Internal server error"

	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, core.ErrMissingName),
		errors.Is(err, core.ErrMissingType),
		errors.Is(err, core.ErrMissingData),
		errors.Is(err, core.ErrParentNotFound),
		errors.Is(err, core.ErrParentNotAFolder),
		errors.Is(err, core.ErrNotAFile):
		status = http.StatusBadRequest
		msg = err.Error()
	}

	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

// HandleUpload serves POST /files: folder creation or file/image
// upload with a base64 payload.
func HandleUpload(svc *files.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": core.ErrUnauthorized.Error()})
			return
		}

		var req uploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "Invalid request body"})
			return
		}

		parentID := parseParentID(req.ParentID)

		var node *core.FileNode
		var err error
		if req.Type == core.TypeFolder {
			node, err = svc.CreateFolder(r.Context(), user, req.Name, parentID, req.IsPublic)
		} else {
			node, err = svc.CreateFile(r.Context(), user, req.Name, req.Type, parentID, req.IsPublic, req.Data)
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"name":    req.Name,
				"type":    req.Type,
			}).WithError(err).Warn("Upload rejected")
			writeError(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, node.View())
	}
}

// HandleShow serves GET /files/{id}.
func HandleShow(svc *files.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": core.ErrUnauthorized.Error()})
			return
		}

		node, err := svc.GetByID(r.Context(), user, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		render.JSON(w, r, node.View())
	}
}

// HandleIndex serves GET /files: one page of the children of parentId.
func HandleIndex(svc *files.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": core.ErrUnauthorized.Error()})
			return
		}

		parentID := r.URL.Query().Get("parentId")
		page := files.ParsePage(r.URL.Query().Get("page"))

		nodes, err := svc.List(r.Context(), user, parentID, page)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":   user.ID,
				"parent_id": parentID,
			}).WithError(err).Error("Failed to list files")
			writeError(w, r, err)
			return
		}

		views := make([]core.FileView, 0, len(nodes))
		for _, node := range nodes {
			views = append(views, node.View())
		}
		render.JSON(w, r, views)
	}
}

// HandleSetVisibility serves PUT /files/{id}/publish and /unpublish.
func HandleSetVisibility(svc *files.Service, isPublic bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": core.ErrUnauthorized.Error()})
			return
		}

		node, err := svc.SetVisibility(r.Context(), user, chi.URLParam(r, "id"), isPublic)
		if err != nil {
			writeError(w, r, err)
			return
		}
		render.JSON(w, r, node.View())
	}
}

// HandleData serves GET /files/{id}/data: the raw payload. Reachable
// anonymously; a private node is only served to its owner.
func HandleData(svc *files.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := middleware.UserFrom(r.Context())

		data, contentType, err := svc.ReadContent(r.Context(), user, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", fmt.Sprint(len(data)))
		w.Write(data)
	}
}
