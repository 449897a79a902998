package core

import "errors"

// Sentinel errors shared across services, stores, and handlers. The
// messages are the exact strings surfaced to API callers.
var (
	ErrUnauthorized = errors.New("Unauthorized")

	// NotFound covers absent records, records owned by someone else,
	// and malformed ids alike, so a caller cannot probe for existence.
	ErrNotFound = errors.New("Not found")

	ErrMissingEmail    = errors.New("Missing email")
	ErrMissingPassword = errors.New("Missing password")
	ErrUserExists      = errors.New("Already exist")

	ErrMissingName      = errors.New("Missing name")
	ErrMissingType      = errors.New("Missing type")
	ErrMissingData      = errors.New("Missing data")
	ErrParentNotFound   = errors.New("Parent not found")
	ErrParentNotAFolder = errors.New("Parent is not a folder")

	ErrNotAFile = errors.New("A folder doesn't have content")
)
