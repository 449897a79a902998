package core

import "context"

type (
	// User is an account record. The password field holds a one-way
	// digest of the plaintext, never the plaintext itself.
	User struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Password string `json:"-"`
	}

	// UserStore defines the persistence layer for user accounts.
	UserStore interface {
		// CreateUser inserts a new user. Returns ErrUserExists when
		// the email is already taken.
		CreateUser(ctx context.Context, user *User) error

		// GetUserByEmail returns the user with the given email, or ErrNotFound.
		GetUserByEmail(ctx context.Context, email string) (*User, error)

		// GetUserByID returns the user with the given id, or ErrNotFound.
		GetUserByID(ctx context.Context, id string) (*User, error)

		// CountUsers returns the total number of users.
		CountUsers(ctx context.Context) (int64, error)
	}
)
