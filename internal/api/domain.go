package api

import "errors"

// Sentinel errors shared across the feature packages. Handlers translate
// them onto HTTP statuses; repositories and services wrap them with context.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation means the request payload failed domain validation.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden means the caller is authenticated but does not own the
	// resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized means the caller is not authenticated.
	ErrUnauthorized = errors.New("unauthorized")
)
