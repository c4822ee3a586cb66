package hyperfjwt

import (
	"errors"
	"testing"
)

func TestNewTokenRejectsEmpty(t *testing.T) {
	if _, err := NewToken(""); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}
}

func TestTokenEquality(t *testing.T) {
	a, err := NewToken("abc.def.ghi")
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	b, err := NewToken("abc.def.ghi")
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	c, err := NewToken("other")
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	if !a.Equal(b) {
		t.Fatal("tokens wrapping the same string must be equal")
	}
	if a.Equal(c) {
		t.Fatal("tokens wrapping different strings must not be equal")
	}
	if a.IsZero() {
		t.Fatal("populated token reported zero")
	}
	if !(Token{}).IsZero() {
		t.Fatal("zero token not reported zero")
	}
}

func TestPayloadIsolation(t *testing.T) {
	source := map[string]any{"sub": "u1", "role": "admin"}
	payload := NewPayload(source)

	source["role"] = "mutated"
	if got := payload.GetString("role"); got != "admin" {
		t.Fatalf("payload aliased caller map: role = %q", got)
	}

	claims := payload.Claims()
	claims["sub"] = "mutated"
	if got := payload.GetString("sub"); got != "u1" {
		t.Fatalf("Claims leaked backing map: sub = %q", got)
	}

	if payload.Get("missing") != nil {
		t.Fatal("absent claim must yield nil")
	}
	if payload.Has("missing") {
		t.Fatal("absent claim must not be reported present")
	}
	if payload.Len() != 2 {
		t.Fatalf("unexpected claim count %d", payload.Len())
	}
}
