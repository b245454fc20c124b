package services

import "github.com/cockroachdb/errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCredentials is returned when an admin login is rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
