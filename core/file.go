package core

import "context"

// FileType discriminates the three node kinds in the hierarchy.
type FileType string

const (
	TypeFolder FileType = "folder"
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
)

// Valid reports whether t is one of the recognized node kinds.
func (t FileType) Valid() bool {
	switch t {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// RootParentID is the sentinel parent value for top-level nodes. It is
// not the id of a real node: valid ids are exactly 24 hex characters,
// so the sentinel can never collide with one.
const RootParentID = "0"

// ListPageSize is the fixed number of nodes returned per listing page.
const ListPageSize = 20

type (
	// FileNode is the metadata record for a folder, file, or image.
	// LocalPath is the blob reference for file/image nodes and is
	// always empty for folders.
	FileNode struct {
		ID        string   `json:"id"`
		UserID    string   `json:"userId"`
		Name      string   `json:"name"`
		Type      FileType `json:"type"`
		IsPublic  bool     `json:"isPublic"`
		ParentID  string   `json:"parentId"`
		LocalPath string   `json:"-"`
	}

	// FileView is the canonical JSON shape exposed to callers: the
	// root sentinel renders as the number 0, every other parent as the
	// parent's id string. The blob reference is never exposed.
	FileView struct {
		ID       string   `json:"id"`
		UserID   string   `json:"userId"`
		Name     string   `json:"name"`
		Type     FileType `json:"type"`
		IsPublic bool     `json:"isPublic"`
		ParentID any      `json:"parentId"`
	}

	// FileStore defines the persistence layer for file metadata.
	FileStore interface {
		// CreateFile inserts a new node. The node's ID must already be set.
		CreateFile(ctx context.Context, node *FileNode) error

		// GetFileByID returns a node by id regardless of owner, or
		// ErrNotFound. Used for parent lookups and content reads,
		// where visibility is decided by the caller.
		GetFileByID(ctx context.Context, id string) (*FileNode, error)

		// GetFileForUser returns a node by id scoped to its owner, or
		// ErrNotFound. A node owned by someone else is indistinguishable
		// from an absent one.
		GetFileForUser(ctx context.Context, userID, id string) (*FileNode, error)

		// ListFiles returns the direct children of parentID owned by
		// userID, most recently created first, sliced to page
		// ListPageSize.
		ListFiles(ctx context.Context, userID, parentID string, page int) ([]*FileNode, error)

		// SetFileVisibility flips the public flag on an owner-scoped
		// node and returns the updated record, or ErrNotFound.
		SetFileVisibility(ctx context.Context, userID, id string, isPublic bool) (*FileNode, error)

		// CountFiles returns the total number of nodes across all users.
		CountFiles(ctx context.Context) (int64, error)
	}
)

// View converts a node to its canonical JSON shape.
func (f *FileNode) View() FileView {
	var parent any = 0
	if f.ParentID != RootParentID && f.ParentID != "" {
		parent = f.ParentID
	}
	return FileView{
		ID:       f.ID,
		UserID:   f.UserID,
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: parent,
	}
}
