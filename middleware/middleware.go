// Package middleware adapts the hyperfjwt facade to net/http handler chains.
//
// [Authenticate] rejects requests without a valid token; [TryAuthenticate]
// lets them through unauthenticated. Both stash the validated payload and
// token in the request context, retrievable with
// hyperfjwt.PayloadFromContext and hyperfjwt.TokenFromContext.
//
// This package translates HTTP semantics into Guard calls. It makes no token
// decisions of its own: validation, blacklist checks, and subject pinning all
// happen inside the facade and its manager.
package middleware

import (
	"net/http"

	hyperfjwt "github.com/kwm/hyperf-jwt"
)

// Authenticate returns middleware that requires a valid token on every
// request. Requests with a missing, invalid, expired, or blacklisted token
// receive 401 without reaching the wrapped handler.
func Authenticate(factory *hyperfjwt.Factory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			guard := factory.ForRequest(r)

			payload, ok := guard.CheckWithPayload(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := hyperfjwt.WithPayload(r.Context(), payload)
			if token, present := guard.Token(); present {
				ctx = hyperfjwt.WithToken(ctx, token)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TryAuthenticate returns middleware that validates a token when one is
// present but never rejects the request. Handlers detect the unauthenticated
// case by the absence of a payload in the context.
func TryAuthenticate(factory *hyperfjwt.Factory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			guard := factory.ForRequest(r)

			if payload, ok := guard.CheckWithPayload(r.Context()); ok {
				ctx := hyperfjwt.WithPayload(r.Context(), payload)
				if token, present := guard.Token(); present {
					ctx = hyperfjwt.WithToken(ctx, token)
				}
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}
