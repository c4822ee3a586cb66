package hyperfjwt

import (
	"context"

	"github.com/kwm/hyperf-jwt/blacklist"
)

// DecodeOptions controls a single decode.
type DecodeOptions struct {
	// VerifyBlacklist rejects tokens whose jti is blacklisted.
	VerifyBlacklist bool
	// IgnoreExpired accepts tokens whose exp claim has passed. Signature and
	// remaining claim checks still apply.
	IgnoreExpired bool
}

// PayloadFactory materializes a Payload from a claim mapping, injecting the
// standard temporal claims (jti, iat, nbf, exp and the configured issuer).
type PayloadFactory interface {
	Make(claims map[string]any) (Payload, error)
}

// TokenManager owns signing, verification, refresh policy, and blacklist
// interaction. The facade treats it as opaque: every error it returns is
// propagated unchanged, and token-domain failures are expected to match the
// sentinels in this package via errors.Is.
type TokenManager interface {
	// Encode signs payload and returns the resulting token.
	Encode(ctx context.Context, payload Payload) (Token, error)

	// Decode verifies token and returns its payload. Failures match
	// ErrTokenInvalid, ErrTokenExpired, or ErrTokenBlacklisted.
	Decode(ctx context.Context, token Token, opts DecodeOptions) (Payload, error)

	// RefreshToken exchanges token for a freshly minted one carrying the
	// preserve claims forward, blacklisting the old token. forceForever
	// blacklists it permanently instead of for the grace window.
	RefreshToken(ctx context.Context, token Token, forceForever bool, preserve map[string]any) (Token, error)

	// Invalidate blacklists token so later decodes reject it.
	Invalidate(ctx context.Context, token Token, forceForever bool) error

	// PayloadFactory exposes the factory used for issuance.
	PayloadFactory() PayloadFactory

	// Blacklist exposes the revocation store for operational tooling.
	Blacklist() blacklist.Blacklist
}
