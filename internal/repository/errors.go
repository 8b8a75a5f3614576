package repository

import "errors"

var (
	// ErrNotFound signals a missing row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUsername signals a unique constraint violation on username.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrDuplicateEmail signals a unique constraint violation on email.
	ErrDuplicateEmail = errors.New("email already registered")
)
