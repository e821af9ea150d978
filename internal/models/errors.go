package models

import "errors"

// Sentinel errors shared across store, logic and handlers.
var (
	// ErrNotFound marks a lookup for an entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSchemaMissing is returned when the database schema has not been
	// installed yet (pending migration). Handlers surface it as a 503
	// rather than a generic internal error.
	ErrSchemaMissing = errors.New("database schema missing")

	// ErrRateLimited marks a request rejected by the submission limiter.
	ErrRateLimited = errors.New("rate limit exceeded")
)
