package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when the requested row
	// does not exist, including deletes of already-deleted ids.
	ErrNotFound = errors.New("record not found")

	// ErrUsernameTaken is returned on signup with a duplicate username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned for any failed login. The
	// reason (unknown user vs wrong secret) is deliberately not
	// distinguished to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden is returned when an actor's role denies access to
	// an entity kind or surface.
	ErrForbidden = errors.New("access denied")
)
