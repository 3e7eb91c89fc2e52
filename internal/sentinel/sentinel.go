package sentinel

import "errors"

// Sentinel dependency errors. Stores should return these (optionally wrapped)
// so services can translate them into domain errors exactly once.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateID       = errors.New("id already in use")
	ErrDuplicateUsername = errors.New("username already in use")
	ErrDuplicatePrefix   = errors.New("token prefix already in use")
	ErrInvalidState      = errors.New("invalid state")
	ErrUnavailable       = errors.New("unavailable")
)
