package domain

import "errors"

var (
	// ErrPersistenceUnavailable means the key-value provider failed to read or write.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrCorrupt means the stored collection could not be decoded.
	ErrCorrupt = errors.New("stored collection is corrupt")

	// ErrOutOfRange means an update addressed a position that does not exist
	// in the current collection.
	ErrOutOfRange = errors.New("position out of range")

	// ErrMissingID is returned (or raised) when a recipe has no identifier.
	ErrMissingID = errors.New("recipe has no id")

	// ErrNotFound is returned by catalog lookups.
	ErrNotFound = errors.New("not found")
)
