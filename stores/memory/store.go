package memory

import (
	"context"
	"sync"

	"filesmanager/core"
)

// memStore is an in-memory metadata store, used as the default for
// local development and in tests. File nodes keep insertion order so
// listings can page through them newest-first.
type memStore struct {
	mu    sync.RWMutex
	users map[string]*core.User // keyed by id
	files []*core.FileNode      // insertion order
	byID  map[string]*core.FileNode
}

// NewStore creates a new in-memory metadata store.
func NewStore() *memStore {
	return &memStore{
		users: make(map[string]*core.User),
		byID:  make(map[string]*core.FileNode),
	}
}

// UserStore implementation

func (s *memStore) CreateUser(ctx context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return core.ErrUserExists
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *memStore) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *memStore) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) CountUsers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

// FileStore implementation

func (s *memStore) CreateFile(ctx context.Context, node *core.FileNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *node
	s.files = append(s.files, &cp)
	s.byID[node.ID] = &cp
	return nil
}

func (s *memStore) GetFileByID(ctx context.Context, id string) (*core.FileNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (s *memStore) GetFileForUser(ctx context.Context, userID, id string) (*core.FileNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.byID[id]
	if !ok || n.UserID != userID {
		return nil, core.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (s *memStore) ListFiles(ctx context.Context, userID, parentID string, page int) ([]*core.FileNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first: walk the insertion slice backwards.
	matched := []*core.FileNode{}
	for i := len(s.files) - 1; i >= 0; i-- {
		n := s.files[i]
		if n.UserID == userID && n.ParentID == parentID {
			matched = append(matched, n)
		}
	}

	start := page * core.ListPageSize
	if start >= len(matched) {
		return []*core.FileNode{}, nil
	}
	end := start + core.ListPageSize
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]*core.FileNode, 0, end-start)
	for _, n := range matched[start:end] {
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memStore) SetFileVisibility(ctx context.Context, userID, id string, isPublic bool) (*core.FileNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok || n.UserID != userID {
		return nil, core.ErrNotFound
	}
	n.IsPublic = isPublic
	cp := *n
	return &cp, nil
}

func (s *memStore) CountFiles(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.files)), nil
}

func (s *memStore) Ping(ctx context.Context) error {
	return nil
}
