package hyperfjwt

import (
	"context"
	"net/http"
)

// Guard orchestrates the token lifecycle for one request: it owns the
// current-token slot, issues tokens for subjects, validates the inbound
// token, and drives refresh and invalidation through the token manager.
//
// A Guard is request-scoped mutable state. Mint one per request through
// [Factory.ForRequest]; never share one between goroutines or reuse it across
// requests.
type Guard struct {
	manager     TokenManager
	parser      RequestParser
	lockSubject bool

	request      *http.Request
	token        *Token
	customClaims map[string]any
}

// Token returns the current token. When the slot is empty it attempts a
// parse from the bound request first; a parse failure is swallowed and
// reported as absence.
func (g *Guard) Token() (Token, bool) {
	if g.token != nil {
		return *g.token, true
	}
	if err := g.ParseToken(); err != nil {
		return Token{}, false
	}
	return *g.token, true
}

// SetToken normalizes raw into a Token and stores it as the current token,
// replacing any previous one. Empty input is rejected with ErrEmptyToken.
func (g *Guard) SetToken(raw string) error {
	token, err := NewToken(raw)
	if err != nil {
		return err
	}
	g.SetTokenValue(token)
	return nil
}

// SetTokenValue stores an already-built Token as the current token. Zero
// tokens are ignored; use UnsetToken to clear the slot.
func (g *Guard) SetTokenValue(token Token) *Guard {
	if token.IsZero() {
		return g
	}
	g.token = &token
	return g
}

// UnsetToken clears the current-token slot.
func (g *Guard) UnsetToken() *Guard {
	g.token = nil
	return g
}

// ParseToken extracts a token from the bound request and stores it as the
// current token. It returns ErrTokenMissing when there is no bound request or
// the parser finds nothing.
func (g *Guard) ParseToken() error {
	if g.request == nil || g.parser == nil {
		return ErrTokenMissing
	}
	raw, ok := g.parser.ParseToken(g.request)
	if !ok {
		return ErrTokenMissing
	}
	return g.SetToken(raw)
}

// requireToken is the precondition guard shared by every operation that needs
// a current token.
func (g *Guard) requireToken() (Token, error) {
	token, ok := g.Token()
	if !ok {
		return Token{}, ErrTokenMissing
	}
	return token, nil
}

// WithClaim buffers one custom claim, merged into every payload issued
// through FromSubject on this Guard.
func (g *Guard) WithClaim(name string, value any) *Guard {
	g.customClaims[name] = value
	return g
}

// WithClaims buffers a batch of custom claims.
func (g *Guard) WithClaims(claims map[string]any) *Guard {
	for name, value := range claims {
		g.customClaims[name] = value
	}
	return g
}

// CustomClaims returns a copy of the buffered custom claims.
func (g *Guard) CustomClaims() map[string]any {
	copied := make(map[string]any, len(g.customClaims))
	for name, value := range g.customClaims {
		copied[name] = value
	}
	return copied
}

// FromSubject issues a signed token for subject and returns its encoded
// string. Claims merge in order: base claims (sub, and prv when subject
// locking is on), then the subject's custom claims, then the Guard's buffered
// claims; later sources win on key collision. The issued token is not stored
// as the current token.
func (g *Guard) FromSubject(ctx context.Context, subject Subject) (string, error) {
	claims := map[string]any{
		"sub": subject.GetIdentifier(),
	}
	if g.lockSubject {
		claims["prv"] = SubjectHash(subject)
	}
	for name, value := range subject.GetCustomClaims() {
		claims[name] = value
	}
	for name, value := range g.customClaims {
		claims[name] = value
	}

	payload, err := g.manager.PayloadFactory().Make(claims)
	if err != nil {
		return "", err
	}
	token, err := g.manager.Encode(ctx, payload)
	if err != nil {
		return "", err
	}
	return token.String(), nil
}

// GetPayload decodes and verifies the current token, checking the blacklist.
// It returns ErrTokenMissing when no token is available and propagates
// ErrTokenInvalid, ErrTokenExpired, and ErrTokenBlacklisted from the manager.
func (g *Guard) GetPayload(ctx context.Context) (Payload, error) {
	return g.getPayload(ctx, false)
}

func (g *Guard) getPayload(ctx context.Context, ignoreExpired bool) (Payload, error) {
	token, err := g.requireToken()
	if err != nil {
		return Payload{}, err
	}
	return g.manager.Decode(ctx, token, DecodeOptions{
		VerifyBlacklist: true,
		IgnoreExpired:   ignoreExpired,
	})
}

// CheckOrFail validates the current token and returns its payload,
// propagating the exact failure. Use Check when only a boolean gate is
// needed.
func (g *Guard) CheckOrFail(ctx context.Context) (Payload, error) {
	return g.GetPayload(ctx)
}

// Check reports whether the current token validates. It never returns an
// error: missing, expired, invalid, and blacklisted tokens all yield false,
// as do store failures during the blacklist lookup.
func (g *Guard) Check(ctx context.Context) bool {
	_, ok := g.CheckWithPayload(ctx)
	return ok
}

// CheckWithPayload is Check returning the decoded payload on success.
func (g *Guard) CheckWithPayload(ctx context.Context) (Payload, bool) {
	payload, err := g.CheckOrFail(ctx)
	if err != nil {
		return Payload{}, false
	}
	return payload, true
}

// Claim validates the current token and returns the named claim, nil when
// the claim is absent from an otherwise valid payload. Decode failures
// propagate with the same taxonomy as GetPayload.
func (g *Guard) Claim(ctx context.Context, name string) (any, error) {
	payload, err := g.GetPayload(ctx)
	if err != nil {
		return nil, err
	}
	return payload.Get(name), nil
}

// CheckSubjectModel reports whether the current token is pinned to the given
// subject model. model is either a subject value or a type-name string.
// Tokens without a prv claim are unpinned and match any model.
func (g *Guard) CheckSubjectModel(ctx context.Context, model any) (bool, error) {
	payload, err := g.GetPayload(ctx)
	if err != nil {
		return false, err
	}
	prv := payload.Get("prv")
	if prv == nil {
		return true, nil
	}
	stored, ok := prv.(string)
	if !ok {
		return false, nil
	}
	return stored == SubjectHash(model), nil
}

// Refresh exchanges the current token for a freshly minted one and stores it
// as current. The old token is blacklisted by the manager, permanently when
// forceForever is set. Buffered custom claims carry forward, and so does the
// prv claim when the old payload had one. An expired token still refreshes as
// long as it is inside the manager's refresh window and not blacklisted.
func (g *Guard) Refresh(ctx context.Context, forceForever bool) (string, error) {
	token, err := g.requireToken()
	if err != nil {
		return "", err
	}

	payload, err := g.getPayload(ctx, true)
	if err != nil {
		return "", err
	}

	preserve := make(map[string]any, len(g.customClaims)+1)
	for name, value := range g.customClaims {
		preserve[name] = value
	}
	if prv := payload.Get("prv"); prv != nil {
		preserve["prv"] = prv
	}

	refreshed, err := g.manager.RefreshToken(ctx, token, forceForever, preserve)
	if err != nil {
		return "", err
	}
	g.SetTokenValue(refreshed)
	return refreshed.String(), nil
}

// Invalidate blacklists the current token. The slot is intentionally left
// populated: within the same request callers may keep reading the token (and,
// during the grace window, its claims) until the request ends.
func (g *Guard) Invalidate(ctx context.Context, forceForever bool) error {
	token, err := g.requireToken()
	if err != nil {
		return err
	}
	return g.manager.Invalidate(ctx, token, forceForever)
}

// Manager exposes the underlying token manager for operations the facade
// does not re-expose.
func (g *Guard) Manager() TokenManager {
	return g.manager
}
