package files

import (
	"context"
	"encoding/base64"
	"errors"
	"mime"
	"path/filepath"
	"strconv"

	"filesmanager/blob"
	"filesmanager/core"

	"github.com/sirupsen/logrus"
)

// Service implements the file hierarchy: folder/file/image creation
// with parent validation, owner-scoped reads and listings, visibility
// toggles, and raw content reads. Every operation except ReadContent
// requires an authenticated user, supplied explicitly by the caller.
type Service struct {
	store core.FileStore
	blobs blob.Store
	queue core.JobQueue
}

// NewService creates a file hierarchy service over the given
// collaborators.
func NewService(store core.FileStore, blobs blob.Store, queue core.JobQueue) *Service {
	return &Service{store: store, blobs: blobs, queue: queue}
}

// checkParent validates a parent reference for a create operation: the
// root sentinel is always fine, anything else must be an existing
// folder. A malformed parent id counts as absent.
func (s *Service) checkParent(ctx context.Context, parentID string) error {
	if parentID == core.RootParentID {
		return nil
	}
	if !core.ValidID(parentID) {
		return core.ErrParentNotFound
	}

	parent, err := s.store.GetFileByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ErrParentNotFound
		}
		return err
	}
	if parent.Type != core.TypeFolder {
		return core.ErrParentNotAFolder
	}
	return nil
}

// CreateFolder inserts a folder node. Folders never carry a blob
// reference.
func (s *Service) CreateFolder(ctx context.Context, user *core.User, name, parentID string, isPublic bool) (*core.FileNode, error) {
	if name == "" {
		return nil, core.ErrMissingName
	}
	if err := s.checkParent(ctx, parentID); err != nil {
		return nil, err
	}

	node := &core.FileNode{
		ID:       core.NewID(),
		UserID:   user.ID,
		Name:     name,
		Type:     core.TypeFolder,
		IsPublic: isPublic,
		ParentID: parentID,
	}
	if err := s.store.CreateFile(ctx, node); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"file_id": node.ID,
		"user_id": user.ID,
		"name":    name,
	}).Info("Folder created")
	return node, nil
}

// CreateFile decodes the base64 payload, writes it to the blob store,
// and inserts a file or image node. Image uploads additionally enqueue
// a thumbnail job; a failed enqueue is logged and does not undo the
// upload.
func (s *Service) CreateFile(ctx context.Context, user *core.User, name string, fileType core.FileType, parentID string, isPublic bool, data string) (*core.FileNode, error) {
	if name == "" {
		return nil, core.ErrMissingName
	}
	if !fileType.Valid() {
		return nil, core.ErrMissingType
	}
	if fileType == core.TypeFolder {
		return s.CreateFolder(ctx, user, name, parentID, isPublic)
	}
	if data == "" {
		return nil, core.ErrMissingData
	}
	if err := s.checkParent(ctx, parentID); err != nil {
		return nil, err
	}

	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, core.ErrMissingData
	}

	localPath, err := s.blobs.Create(ctx, payload)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"name":    name,
		}).WithError(err).Error("Failed to store file payload")
		return nil, err
	}

	node := &core.FileNode{
		ID:        core.NewID(),
		UserID:    user.ID,
		Name:      name,
		Type:      fileType,
		IsPublic:  isPublic,
		ParentID:  parentID,
		LocalPath: localPath,
	}
	if err := s.store.CreateFile(ctx, node); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"file_id": node.ID,
		"user_id": user.ID,
		"name":    name,
		"type":    fileType,
	}).Info("File created")

	if fileType == core.TypeImage {
		job := core.ThumbnailJob{UserID: user.ID, FileID: node.ID, Name: name}
		if err := s.queue.Enqueue(ctx, job); err != nil {
			// Best effort: the upload already succeeded.
			logrus.WithField("file_id", node.ID).WithError(err).Error("Failed to enqueue thumbnail job")
		}
	}
	return node, nil
}

// GetByID returns a node owned by user. A node owned by someone else,
// or a malformed id, is reported as absent.
func (s *Service) GetByID(ctx context.Context, user *core.User, id string) (*core.FileNode, error) {
	if !core.ValidID(id) {
		return nil, core.ErrNotFound
	}
	return s.store.GetFileForUser(ctx, user.ID, id)
}

// List returns one page of the direct children of parentID owned by
// user, most recently created first. An empty parentID means the root.
func (s *Service) List(ctx context.Context, user *core.User, parentID string, page int) ([]*core.FileNode, error) {
	if parentID == "" {
		parentID = core.RootParentID
	}
	if page < 0 {
		page = 0
	}
	return s.store.ListFiles(ctx, user.ID, parentID, page)
}

// SetVisibility flips the public flag on a node owned by user and
// returns the updated record.
func (s *Service) SetVisibility(ctx context.Context, user *core.User, id string, isPublic bool) (*core.FileNode, error) {
	if !core.ValidID(id) {
		return nil, core.ErrNotFound
	}
	return s.store.SetFileVisibility(ctx, user.ID, id, isPublic)
}

// ReadContent returns a node's raw payload and a content-type hint.
// The caller may be anonymous (nil user): public nodes are readable by
// anyone, private nodes only by their owner, and every other case is
// reported as absent. Folders have no content.
func (s *Service) ReadContent(ctx context.Context, user *core.User, id string) ([]byte, string, error) {
	if !core.ValidID(id) {
		return nil, "", core.ErrNotFound
	}

	node, err := s.store.GetFileByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if !node.IsPublic && (user == nil || user.ID != node.UserID) {
		return nil, "", core.ErrNotFound
	}
	if node.Type == core.TypeFolder {
		return nil, "", core.ErrNotAFile
	}

	data, err := s.blobs.Read(ctx, node.LocalPath)
	if err != nil {
		return nil, "", err
	}
	return data, ContentType(node.Name), nil
}

// ContentType derives a MIME hint from a file name's extension,
// falling back to a generic binary type.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ParsePage parses a page query parameter. Anything that is not a
// non-negative integer yields page zero.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0
	}
	return page
}
