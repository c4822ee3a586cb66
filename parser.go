package hyperfjwt

import (
	"net/http"
	"strings"
)

// RequestParser extracts a raw token string from an inbound request. A false
// result means no token was found; the facade maps that to ErrTokenMissing.
type RequestParser interface {
	ParseToken(r *http.Request) (string, bool)
}

// AuthHeaderParser reads the token from an Authorization header. Header and
// Prefix default to "Authorization" and "Bearer".
type AuthHeaderParser struct {
	Header string
	Prefix string
}

// ParseToken implements RequestParser.
func (p AuthHeaderParser) ParseToken(r *http.Request) (string, bool) {
	header := p.Header
	if header == "" {
		header = "Authorization"
	}
	prefix := p.Prefix
	if prefix == "" {
		prefix = "Bearer"
	}

	value := r.Header.Get(header)
	if value == "" {
		return "", false
	}
	if !strings.HasPrefix(value, prefix+" ") {
		return "", false
	}

	token := strings.TrimSpace(value[len(prefix)+1:])
	if token == "" {
		return "", false
	}
	return token, true
}

// QueryParser reads the token from a URL query parameter.
type QueryParser struct {
	Key string
}

// ParseToken implements RequestParser.
func (p QueryParser) ParseToken(r *http.Request) (string, bool) {
	key := p.Key
	if key == "" {
		key = "token"
	}
	token := r.URL.Query().Get(key)
	return token, token != ""
}

// CookieParser reads the token from a named cookie.
type CookieParser struct {
	Name string
}

// ParseToken implements RequestParser.
func (p CookieParser) ParseToken(r *http.Request) (string, bool) {
	name := p.Name
	if name == "" {
		name = "token"
	}
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// ParserChain tries each parser in order and returns the first hit.
type ParserChain []RequestParser

// ParseToken implements RequestParser.
func (c ParserChain) ParseToken(r *http.Request) (string, bool) {
	for _, parser := range c {
		if token, ok := parser.ParseToken(r); ok {
			return token, true
		}
	}
	return "", false
}

// DefaultParser is the extraction order used when Config.Parser is nil:
// Authorization header, then ?token=, then the token cookie.
func DefaultParser() RequestParser {
	return ParserChain{
		AuthHeaderParser{},
		QueryParser{},
		CookieParser{},
	}
}
