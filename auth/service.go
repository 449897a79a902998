package auth

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"filesmanager/core"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionTTL is the fixed lifetime of a session token.
const SessionTTL = 24 * time.Hour

// sessionKeyPrefix namespaces session tokens inside the cache.
const sessionKeyPrefix = "auth_"

// Service validates credentials and manages session tokens. It gates
// every file operation: handlers authenticate first and pass the
// resulting User into the hierarchy service explicitly.
type Service struct {
	users    core.UserStore
	sessions core.SessionStore
}

// NewService creates an auth service over the given stores.
func NewService(users core.UserStore, sessions core.SessionStore) *Service {
	return &Service{users: users, sessions: sessions}
}

// HashPassword returns the hex-encoded sha1 digest of a plaintext
// password, the digest format user records store.
func HashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, email, password string) (*core.User, error) {
	if email == "" {
		return nil, core.ErrMissingEmail
	}
	if password == "" {
		return nil, core.ErrMissingPassword
	}

	user := &core.User{
		ID:       core.NewID(),
		Email:    email,
		Password: HashPassword(password),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")
	return user, nil
}

// AuthenticateBasic resolves a `Basic <base64(email:password)>` header
// to a user. Every failure mode collapses to ErrUnauthorized so a
// caller cannot tell a missing account from a wrong password.
func (s *Service) AuthenticateBasic(ctx context.Context, header string) (*core.User, error) {
	if !strings.HasPrefix(header, "Basic ") {
		return nil, core.ErrUnauthorized
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	if err != nil {
		return nil, core.ErrUnauthorized
	}

	email, password, ok := strings.Cut(string(decoded), ":")
	if !ok || email == "" {
		return nil, core.ErrUnauthorized
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrUnauthorized
		}
		return nil, err
	}

	if user.Password != HashPassword(password) {
		return nil, core.ErrUnauthorized
	}
	return user, nil
}

// CreateSession mints a fresh opaque token for the user, valid for
// SessionTTL. A user may hold any number of concurrent sessions.
func (s *Service) CreateSession(ctx context.Context, user *core.User) (string, error) {
	token := uuid.NewString()
	if err := s.sessions.Set(ctx, sessionKeyPrefix+token, user.ID, SessionTTL); err != nil {
		return "", err
	}
	logrus.WithField("user_id", user.ID).Debug("Session created")
	return token, nil
}

// AuthenticateToken resolves a session token to its user. A missing or
// expired token, and a session whose user no longer exists, are both
// ErrUnauthorized.
func (s *Service) AuthenticateToken(ctx context.Context, token string) (*core.User, error) {
	if token == "" {
		return nil, core.ErrUnauthorized
	}

	userID, err := s.sessions.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrUnauthorized
		}
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// RevokeSession deletes a session token. Revoking an absent token is
// not an error.
func (s *Service) RevokeSession(ctx context.Context, token string) error {
	return s.sessions.Del(ctx, sessionKeyPrefix+token)
}
