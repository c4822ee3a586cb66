package hyperfjwt

import (
	"errors"
	"net/http"
)

// Builder assembles a Factory. Construction is allocation-only; nothing
// touches the token manager until Build.
type Builder struct {
	manager TokenManager
	config  Config
}

// New starts a Builder around the given token manager with default
// configuration: subject locking on, default parser chain.
func New(manager TokenManager) *Builder {
	return &Builder{
		manager: manager,
		config:  defaultConfig(),
	}
}

// WithParser replaces the request parser used to extract inbound tokens.
func (b *Builder) WithParser(parser RequestParser) *Builder {
	b.config.Parser = parser
	return b
}

// WithSubjectLock toggles prv subject pinning at issuance.
func (b *Builder) WithSubjectLock(enabled bool) *Builder {
	b.config.LockSubject = enabled
	return b
}

// Build validates the configuration and returns the long-lived Factory.
func (b *Builder) Build() (*Factory, error) {
	if b.manager == nil {
		return nil, errors.New("token manager is required")
	}
	cfg := b.config
	if cfg.Parser == nil {
		cfg.Parser = DefaultParser()
	}
	return &Factory{manager: b.manager, config: cfg}, nil
}

// Factory mints request-scoped Guards. It is immutable after Build and safe
// for concurrent use; the Guards it returns are not.
type Factory struct {
	manager TokenManager
	config  Config
}

// Manager returns the underlying token manager for callers that need
// operations the facade does not re-expose.
func (f *Factory) Manager() TokenManager {
	return f.manager
}

// ForRequest returns a Guard bound to one inbound request. The Guard's
// current-token slot starts absent; it fills lazily from the request parser
// or explicitly via SetToken.
func (f *Factory) ForRequest(r *http.Request) *Guard {
	return &Guard{
		manager:      f.manager,
		parser:       f.config.Parser,
		lockSubject:  f.config.LockSubject,
		request:      r,
		customClaims: map[string]any{},
	}
}

// Guard returns a Guard with no inbound request, for issuance-only paths
// (login handlers, CLIs, tests). Its parser never finds a token, so lifecycle
// operations require an explicit SetToken first.
func (f *Factory) Guard() *Guard {
	return f.ForRequest(nil)
}
