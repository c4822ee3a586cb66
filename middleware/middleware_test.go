package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	hyperfjwt "github.com/kwm/hyperf-jwt"
	"github.com/kwm/hyperf-jwt/blacklist"
	"github.com/kwm/hyperf-jwt/manager"
)

type stubUser struct{ id string }

func (u stubUser) GetIdentifier() string           { return u.id }
func (u stubUser) GetCustomClaims() map[string]any { return map[string]any{"role": "member"} }

func newFactory(t *testing.T) *hyperfjwt.Factory {
	t.Helper()

	mgr, err := manager.New(manager.Config{
		TTL:           time.Hour,
		SigningMethod: manager.MethodHS256,
		PrivateKey:    []byte("middleware-test-secret-material"),
	}, blacklist.NewMemoryStore())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	factory, err := hyperfjwt.New(mgr).Build()
	if err != nil {
		t.Fatalf("build factory: %v", err)
	}
	return factory
}

func issueToken(t *testing.T, factory *hyperfjwt.Factory) string {
	t.Helper()

	token, err := factory.Guard().FromSubject(context.Background(), stubUser{id: "user-1"})
	if err != nil {
		t.Fatalf("from subject: %v", err)
	}
	return token
}

func TestAuthenticateAllowsValidToken(t *testing.T) {
	factory := newFactory(t)
	token := issueToken(t, factory)

	var seen hyperfjwt.Payload
	var havePayload, haveToken bool
	handler := Authenticate(factory)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, havePayload = hyperfjwt.PayloadFromContext(r.Context())
		_, haveToken = hyperfjwt.TokenFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !havePayload || !haveToken {
		t.Fatal("payload and token must be stored in the request context")
	}
	if got := seen.GetString("sub"); got != "user-1" {
		t.Fatalf("sub = %q, want user-1", got)
	}
	if got := seen.GetString("role"); got != "member" {
		t.Fatalf("role = %q, want member", got)
	}
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	factory := newFactory(t)

	called := false
	handler := Authenticate(factory)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if called {
		t.Fatal("handler must not run without a token")
	}
}

func TestAuthenticateRejectsInvalidatedToken(t *testing.T) {
	factory := newFactory(t)
	token := issueToken(t, factory)

	guard := factory.Guard()
	if err := guard.SetToken(token); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if err := guard.Invalidate(context.Background(), true); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	handler := Authenticate(factory)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run for a blacklisted token")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestTryAuthenticatePassesThroughWithoutToken(t *testing.T) {
	factory := newFactory(t)

	var havePayload bool
	handler := TryAuthenticate(factory)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, havePayload = hyperfjwt.PayloadFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if havePayload {
		t.Fatal("unauthenticated request must carry no payload")
	}
}

func TestTryAuthenticateAttachesPayloadWhenPresent(t *testing.T) {
	factory := newFactory(t)
	token := issueToken(t, factory)

	var havePayload bool
	handler := TryAuthenticate(factory)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, havePayload = hyperfjwt.PayloadFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !havePayload {
		t.Fatal("valid token must attach a payload")
	}
}
