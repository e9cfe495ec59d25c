package repository

import "errors"

// Store-level sentinels. Implementations translate their driver errors
// into these; anything else means the store itself misbehaved and the
// outcome of the call is unknown.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("duplicate key")
	ErrVersionConflict = errors.New("version conflict")
)
