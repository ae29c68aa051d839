package service

import (
	"errors"
)

// The denial taxonomy. Every check in this package fails closed: an
// ambiguous or erroring lookup denies access rather than granting it, and no
// denial is retried internally.
var (
	// ErrUnauthenticated covers every way a credential can fail to resolve.
	// Callers never learn whether the header was missing, malformed, or simply
	// matched nothing, so credential existence is not leaked.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUnauthorized is a valid identity with insufficient entitlement, or a
	// failed view-token / IP match.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is also returned for private files read by non-owners, so
	// they are indistinguishable from files that do not exist.
	ErrNotFound = errors.New("not found")

	ErrConflict = errors.New("conflict")

	// ErrInternal is a store fault. It is logged and surfaced opaque.
	ErrInternal = errors.New("internal error")
)
