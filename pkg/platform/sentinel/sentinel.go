// Package sentinel holds infrastructure facts returned by stores.
//
// Stores return these (optionally wrapped); services translate them into
// domain errors. Validation failures belong in pkg/domain-errors instead.
package sentinel

import "errors"

var (
	// ErrNotFound: the row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a concurrent writer changed the rows a write was planned against.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState: the row exists but is in the wrong state for the write.
	ErrInvalidState = errors.New("invalid state")
	// ErrUnavailable: a backing service could not be reached.
	ErrUnavailable = errors.New("unavailable")
)
