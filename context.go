package hyperfjwt

import "context"

type payloadContextKey struct{}
type tokenContextKey struct{}

// WithPayload stores a validated payload in ctx for downstream handlers.
func WithPayload(ctx context.Context, payload Payload) context.Context {
	return context.WithValue(ctx, payloadContextKey{}, payload)
}

// PayloadFromContext retrieves a payload previously stored by WithPayload,
// typically by the middleware package after a successful check.
func PayloadFromContext(ctx context.Context) (Payload, bool) {
	if ctx == nil {
		return Payload{}, false
	}
	payload, ok := ctx.Value(payloadContextKey{}).(Payload)
	return payload, ok
}

// WithToken stores the validated inbound token in ctx.
func WithToken(ctx context.Context, token Token) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext retrieves a token previously stored by WithToken.
func TokenFromContext(ctx context.Context) (Token, bool) {
	if ctx == nil {
		return Token{}, false
	}
	token, ok := ctx.Value(tokenContextKey{}).(Token)
	return token, ok
}
