package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"filesmanager/core"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type sqliteStore struct {
	db *sql.DB
}

// NewStore creates a new SQLite-based metadata store.
func NewStore(dataSourceName string) *sqliteStore {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}

	usersTableStmt := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	);`
	if _, err = db.Exec(usersTableStmt); err != nil {
		log.Fatalf("failed to create users table: %v", err)
	}

	// seq orders listings by insertion; rowid is not reliable after
	// vacuum so we keep an explicit monotonic column.
	filesTableStmt := `
	CREATE TABLE IF NOT EXISTS files (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL DEFAULT 0,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		is_public INTEGER NOT NULL DEFAULT 0,
		parent_id TEXT NOT NULL,
		local_path TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_files_listing ON files (user_id, parent_id, seq);`
	if _, err = db.Exec(filesTableStmt); err != nil {
		log.Fatalf("failed to create files table: %v", err)
	}

	return &sqliteStore{db}
}

// UserStore implementation

func (s *sqliteStore) CreateUser(ctx context.Context, user *core.User) error {
	log := logrus.WithField("email", user.Email)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password) VALUES (?, ?, ?)",
		user.ID, user.Email, user.Password)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.ErrUserExists
		}
		log.WithError(err).Error("Failed to create user")
		return err
	}
	log.WithField("user_id", user.ID).Info("User created")
	return nil
}

func (s *sqliteStore) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	var user core.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password FROM users WHERE email = ?", email).
		Scan(&user.ID, &user.Email, &user.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *sqliteStore) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	var user core.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password FROM users WHERE id = ?", id).
		Scan(&user.ID, &user.Email, &user.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *sqliteStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// FileStore implementation

const fileColumns = "id, user_id, name, type, is_public, parent_id, local_path"

func scanFile(row *sql.Row) (*core.FileNode, error) {
	var node core.FileNode
	var isPublic int
	err := row.Scan(&node.ID, &node.UserID, &node.Name, &node.Type,
		&isPublic, &node.ParentID, &node.LocalPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	node.IsPublic = isPublic != 0
	return &node, nil
}

func (s *sqliteStore) CreateFile(ctx context.Context, node *core.FileNode) error {
	isPublic := 0
	if node.IsPublic {
		isPublic = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO files (id, seq, user_id, name, type, is_public, parent_id, local_path)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM files), ?, ?, ?, ?, ?, ?)`,
		node.ID, node.UserID, node.Name, node.Type, isPublic, node.ParentID, node.LocalPath)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"file_id": node.ID,
			"user_id": node.UserID,
		}).WithError(err).Error("Failed to insert file")
		return err
	}
	return nil
}

func (s *sqliteStore) GetFileByID(ctx context.Context, id string) (*core.FileNode, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM files WHERE id = ?", fileColumns), id)
	return scanFile(row)
}

func (s *sqliteStore) GetFileForUser(ctx context.Context, userID, id string) (*core.FileNode, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM files WHERE id = ? AND user_id = ?", fileColumns), id, userID)
	return scanFile(row)
}

func (s *sqliteStore) ListFiles(ctx context.Context, userID, parentID string, page int) ([]*core.FileNode, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM files WHERE user_id = ? AND parent_id = ?
		 ORDER BY seq DESC LIMIT ? OFFSET ?`, fileColumns),
		userID, parentID, core.ListPageSize, page*core.ListPageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nodes := []*core.FileNode{}
	for rows.Next() {
		var node core.FileNode
		var isPublic int
		if err := rows.Scan(&node.ID, &node.UserID, &node.Name, &node.Type,
			&isPublic, &node.ParentID, &node.LocalPath); err != nil {
			return nil, err
		}
		node.IsPublic = isPublic != 0
		nodes = append(nodes, &node)
	}
	return nodes, rows.Err()
}

func (s *sqliteStore) SetFileVisibility(ctx context.Context, userID, id string, isPublic bool) (*core.FileNode, error) {
	flag := 0
	if isPublic {
		flag = 1
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE files SET is_public = ? WHERE id = ? AND user_id = ?", flag, id, userID)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, core.ErrNotFound
	}
	return s.GetFileForUser(ctx, userID, id)
}

func (s *sqliteStore) CountFiles(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM files").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *sqliteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
