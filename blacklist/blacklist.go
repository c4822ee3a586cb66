// Package blacklist stores the identifiers of invalidated tokens so decode
// paths can reject them before expiry does.
//
// Entries carry grace semantics: a token invalidated with a grace window
// stays usable until the window closes, letting requests already in flight
// with the old token finish. Entries added forever are rejected immediately
// and never expire. Two stores are provided: a Redis-backed store for
// production and an in-process store for tests and single-node embedding.
package blacklist

import (
	"context"
	"errors"
	"time"
)

// ErrStoreUnavailable wraps backend failures so callers can tell a store
// outage apart from a definitive blacklist answer.
var ErrStoreUnavailable = errors.New("blacklist store unavailable")

// Blacklist is the revocation store consumed by the token manager. jti is the
// token's unique identifier claim.
type Blacklist interface {
	// Add blacklists jti with a grace window: Has stays false until
	// graceUntil passes. expiresAt is the token's own expiry and bounds how
	// long the entry must be retained.
	Add(ctx context.Context, jti string, graceUntil, expiresAt time.Time) error

	// AddForever blacklists jti permanently and immediately.
	AddForever(ctx context.Context, jti string) error

	// Has reports whether jti is currently rejected.
	Has(ctx context.Context, jti string) (bool, error)

	// Remove deletes the entry for jti, restoring the token.
	Remove(ctx context.Context, jti string) error

	// Clear removes every entry owned by this store.
	Clear(ctx context.Context) error
}
