// Package storage defines the error taxonomy shared by every persistence
// backend. Backends live in the memory, postgres and sqlite subpackages.
package storage

import "errors"

var (
	// ErrMissingRecord is returned when a body or near-death record does not
	// exist. Callers recover by initializing a default.
	ErrMissingRecord = errors.New("record missing")
	// ErrCorruptRecord is returned when a stored record cannot be decoded or
	// fails validation. Callers recover by deleting it.
	ErrCorruptRecord = errors.New("record corrupt")
	// ErrNotFound is returned when a character or location lookup fails.
	ErrNotFound = errors.New("not found")
)
