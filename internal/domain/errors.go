package domain

import "errors"

var (
	// ErrUnauthenticated: a mutation was attempted with an empty token.
	// Raised before any network I/O.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidRating: mark outside 1..5 at submission time. Raised
	// before any network I/O. Fetched marks are never validated.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrFetchFailed: a read from the upstream failed. Non-fatal, the
	// cached list for that center is kept as-is.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrSubmissionFailed: a write to the upstream failed. Non-fatal,
	// the store is untouched and the caller keeps the typed input.
	ErrSubmissionFailed = errors.New("submission failed")

	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
