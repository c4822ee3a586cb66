package hyperfjwt

import "errors"

var (
	// ErrTokenMissing is returned when an operation needs a current token and
	// neither the slot nor the request parser can supply one.
	ErrTokenMissing = errors.New("token missing")
	// ErrTokenInvalid is returned for malformed tokens and signature failures.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired is returned when a token's exp claim is in the past.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenBlacklisted is returned when a token has been invalidated and
	// its grace window, if any, has passed.
	ErrTokenBlacklisted = errors.New("token blacklisted")
	// ErrTokenNotRefreshable is returned when a token is past its refresh
	// window and can no longer be exchanged for a fresh one.
	ErrTokenNotRefreshable = errors.New("token not refreshable")
	// ErrEmptyToken is returned when an empty string is offered as a token.
	ErrEmptyToken = errors.New("empty token string")
)

// IsTokenError reports whether err belongs to the token-domain taxonomy that
// [Guard.Check] converts into a boolean result. Store and transport failures
// are not token errors and also fail Check, but callers who need to tell the
// two apart use [Guard.CheckOrFail] and this predicate.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenMissing) ||
		errors.Is(err, ErrTokenInvalid) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenBlacklisted) ||
		errors.Is(err, ErrTokenNotRefreshable)
}
