// Package manager implements the token manager behind the hyperfjwt facade
// on golang-jwt: HS256 or Ed25519 signing, claim verification with leeway,
// refresh-window policy, and blacklist-backed invalidation.
package manager

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	hyperfjwt "github.com/kwm/hyperf-jwt"
	"github.com/kwm/hyperf-jwt/blacklist"
)

// SigningMethod selects the signature scheme for issued tokens.
type SigningMethod string

const (
	// MethodHS256 signs with an HMAC-SHA256 shared secret.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with an Ed25519 key pair.
	MethodEd25519 SigningMethod = "ed25519"
)

// Config is validated once in New and immutable afterwards.
type Config struct {
	// TTL is the lifetime of issued tokens. Required.
	TTL time.Duration

	// RefreshTTL bounds the refresh window: a token refreshes only while
	// now < iat + RefreshTTL. Zero means no window limit.
	RefreshTTL time.Duration

	// GracePeriod keeps a blacklisted token usable for this long after
	// invalidation, so concurrent requests holding it can finish. Zero
	// rejects immediately.
	GracePeriod time.Duration

	// SigningMethod is hs256 or ed25519.
	SigningMethod SigningMethod

	// PrivateKey is the HS256 secret, or the Ed25519 private key (raw or
	// PEM). Verification-only deployments may leave it empty for ed25519.
	PrivateKey []byte

	// PublicKey is the Ed25519 public key (raw or PEM). Unused for HS256.
	PublicKey []byte

	// Issuer, when set, is stamped into iss and enforced at decode.
	Issuer string

	// Leeway tolerates clock skew during temporal claim checks. At most two
	// minutes.
	Leeway time.Duration
}

// Manager implements hyperfjwt.TokenManager. It is immutable after New and
// safe for concurrent use.
type Manager struct {
	config    Config
	factory   *PayloadFactory
	blacklist blacklist.Blacklist
}

// New validates cfg and builds a Manager over the given blacklist store.
func New(cfg Config, store blacklist.Blacklist) (*Manager, error) {
	if store == nil {
		return nil, errors.New("blacklist store is required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.RefreshTTL < 0 {
		return nil, errors.New("invalid RefreshTTL configuration")
	}
	if cfg.GracePeriod < 0 {
		return nil, errors.New("invalid GracePeriod configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	cfg.Issuer = strings.TrimSpace(cfg.Issuer)

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires private key")
		}
	case MethodEd25519:
		if len(cfg.PrivateKey) > 0 {
			if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
				return nil, err
			}
		}
		if len(cfg.PublicKey) == 0 {
			return nil, errors.New("ed25519 requires public key")
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Manager{
		config:    cfg,
		factory:   &PayloadFactory{ttl: cfg.TTL, issuer: cfg.Issuer},
		blacklist: store,
	}, nil
}

// PayloadFactory implements hyperfjwt.TokenManager.
func (m *Manager) PayloadFactory() hyperfjwt.PayloadFactory {
	return m.factory
}

// Blacklist exposes the revocation store for operational tooling.
func (m *Manager) Blacklist() blacklist.Blacklist {
	return m.blacklist
}

// Encode implements hyperfjwt.TokenManager.
func (m *Manager) Encode(_ context.Context, payload hyperfjwt.Payload) (hyperfjwt.Token, error) {
	token := jwt.NewWithClaims(m.method(), jwt.MapClaims(payload.Claims()))

	signKey, err := m.signKey()
	if err != nil {
		return hyperfjwt.Token{}, err
	}
	signed, err := token.SignedString(signKey)
	if err != nil {
		return hyperfjwt.Token{}, fmt.Errorf("sign token: %w", err)
	}
	return hyperfjwt.NewToken(signed)
}

// Decode implements hyperfjwt.TokenManager.
func (m *Manager) Decode(ctx context.Context, token hyperfjwt.Token, opts hyperfjwt.DecodeOptions) (hyperfjwt.Payload, error) {
	claims, err := m.parse(token.String(), opts.IgnoreExpired)
	if err != nil {
		return hyperfjwt.Payload{}, err
	}
	payload := hyperfjwt.NewPayload(claims)

	if opts.VerifyBlacklist {
		if err := m.checkBlacklist(ctx, payload); err != nil {
			return hyperfjwt.Payload{}, err
		}
	}
	return payload, nil
}

// RefreshToken implements hyperfjwt.TokenManager. The old token is verified
// (ignoring expiry, honoring the blacklist and the refresh window), then
// blacklisted, and a fresh token is minted carrying its sub plus the preserve
// claims.
func (m *Manager) RefreshToken(ctx context.Context, token hyperfjwt.Token, forceForever bool, preserve map[string]any) (hyperfjwt.Token, error) {
	payload, err := m.Decode(ctx, token, hyperfjwt.DecodeOptions{
		VerifyBlacklist: true,
		IgnoreExpired:   true,
	})
	if err != nil {
		return hyperfjwt.Token{}, err
	}

	if m.config.RefreshTTL > 0 {
		issuedAt, ok := unixClaim(payload.Get("iat"))
		if !ok || time.Now().After(issuedAt.Add(m.config.RefreshTTL)) {
			return hyperfjwt.Token{}, hyperfjwt.ErrTokenNotRefreshable
		}
	}

	if err := m.blacklistPayload(ctx, payload, forceForever); err != nil {
		return hyperfjwt.Token{}, err
	}

	claims := map[string]any{"sub": payload.Get("sub")}
	for name, value := range preserve {
		claims[name] = value
	}
	fresh, err := m.factory.Make(claims)
	if err != nil {
		return hyperfjwt.Token{}, err
	}
	return m.Encode(ctx, fresh)
}

// Invalidate implements hyperfjwt.TokenManager. Re-invalidating an already
// blacklisted token is allowed and refreshes its entry.
func (m *Manager) Invalidate(ctx context.Context, token hyperfjwt.Token, forceForever bool) error {
	payload, err := m.Decode(ctx, token, hyperfjwt.DecodeOptions{
		VerifyBlacklist: false,
		IgnoreExpired:   true,
	})
	if err != nil {
		return err
	}
	return m.blacklistPayload(ctx, payload, forceForever)
}

func (m *Manager) blacklistPayload(ctx context.Context, payload hyperfjwt.Payload, forceForever bool) error {
	jti := payload.GetString("jti")
	if jti == "" {
		return fmt.Errorf("%w: missing jti claim", hyperfjwt.ErrTokenInvalid)
	}
	if forceForever {
		return m.blacklist.AddForever(ctx, jti)
	}

	now := time.Now()
	expiresAt, ok := unixClaim(payload.Get("exp"))
	if !ok {
		expiresAt = now.Add(m.config.TTL)
	}
	return m.blacklist.Add(ctx, jti, now.Add(m.config.GracePeriod), expiresAt)
}

func (m *Manager) checkBlacklist(ctx context.Context, payload hyperfjwt.Payload) error {
	jti := payload.GetString("jti")
	if jti == "" {
		return nil
	}
	blocked, err := m.blacklist.Has(ctx, jti)
	if err != nil {
		return err
	}
	if blocked {
		return hyperfjwt.ErrTokenBlacklisted
	}
	return nil
}

func (m *Manager) parse(raw string, ignoreExpired bool) (map[string]any, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method().Alg()}),
	}
	if m.config.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.config.Issuer))
	}

	parsed, err := jwt.NewParser(opts...).Parse(raw, m.keyfunc)
	expired := false
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", hyperfjwt.ErrTokenInvalid, err)
		}
		if !ignoreExpired {
			return nil, fmt.Errorf("%w: %v", hyperfjwt.ErrTokenExpired, err)
		}
		// Expired but tolerated: re-parse without claim validation to recover
		// the payload. The signature check still applies.
		expired = true
		reOpts := append(opts[:len(opts):len(opts)], jwt.WithoutClaimsValidation())
		parsed, err = jwt.NewParser(reOpts...).Parse(raw, m.keyfunc)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", hyperfjwt.ErrTokenInvalid, err)
		}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, hyperfjwt.ErrTokenInvalid
	}
	if expired {
		// The tolerated re-parse skipped every claim check, not just exp.
		// Re-apply the rest so an expired token cannot smuggle a bad issuer
		// or a future nbf through the refresh path.
		if err := m.validateIgnoringExpiry(claims); err != nil {
			return nil, err
		}
	}
	return map[string]any(claims), nil
}

func (m *Manager) validateIgnoringExpiry(claims jwt.MapClaims) error {
	if m.config.Issuer != "" {
		if iss, _ := claims["iss"].(string); iss != m.config.Issuer {
			return fmt.Errorf("%w: invalid issuer", hyperfjwt.ErrTokenInvalid)
		}
	}
	if notBefore, ok := unixClaim(claims["nbf"]); ok {
		if time.Now().Add(m.config.Leeway).Before(notBefore) {
			return fmt.Errorf("%w: token not valid yet", hyperfjwt.ErrTokenInvalid)
		}
	}
	if issuedAt, ok := unixClaim(claims["iat"]); ok {
		if time.Now().Add(m.config.Leeway).Before(issuedAt) {
			return fmt.Errorf("%w: token issued in the future", hyperfjwt.ErrTokenInvalid)
		}
	}
	return nil
}

func (m *Manager) keyfunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != m.method().Alg() {
		return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
	}
	return m.verifyKey()
}

func (m *Manager) method() jwt.SigningMethod {
	switch m.config.SigningMethod {
	case MethodHS256:
		return jwt.SigningMethodHS256
	default:
		return jwt.SigningMethodEdDSA
	}
}

func (m *Manager) signKey() (any, error) {
	switch m.config.SigningMethod {
	case MethodHS256:
		return m.config.PrivateKey, nil
	default:
		return parseEdPrivateKey(m.config.PrivateKey)
	}
}

func (m *Manager) verifyKey() (any, error) {
	switch m.config.SigningMethod {
	case MethodHS256:
		return m.config.PrivateKey, nil
	default:
		return parseEdPublicKey(m.config.PublicKey)
	}
}

// Ed25519 keys arrive either as raw key bytes or PEM; anything else is a
// configuration mistake surfaced at construction time.
func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, fmt.Errorf("parse ed25519 private key: %w", err)
	}
	priv, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("not an ed25519 private key")
	}
	return priv, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, fmt.Errorf("parse ed25519 public key: %w", err)
	}
	pub, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("not an ed25519 public key")
	}
	return pub, nil
}

func unixClaim(value any) (time.Time, bool) {
	switch n := value.(type) {
	case float64:
		return time.Unix(int64(n), 0), true
	case int64:
		return time.Unix(n, 0), true
	case int:
		return time.Unix(int64(n), 0), true
	}
	return time.Time{}, false
}
