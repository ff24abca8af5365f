package errors

import "errors"

var (
	ErrNotFound = errors.New("rental not found")

	// ErrVersionConflict means a versioned write presented a stale version:
	// another writer got there first.
	ErrVersionConflict = errors.New("rental has been updated by another request")
)
