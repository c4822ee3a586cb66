package hyperfjwt

// Token wraps an encoded, signed token string. The zero value is invalid;
// construct through NewToken so the non-empty invariant holds everywhere a
// Token travels.
type Token struct {
	value string
}

// NewToken wraps raw in a Token. It returns ErrEmptyToken when raw is empty.
func NewToken(raw string) (Token, error) {
	if raw == "" {
		return Token{}, ErrEmptyToken
	}
	return Token{value: raw}, nil
}

// String returns the encoded token string.
func (t Token) String() string {
	return t.value
}

// IsZero reports whether t was never populated.
func (t Token) IsZero() bool {
	return t.value == ""
}

// Equal reports whether both tokens wrap the same encoded string.
func (t Token) Equal(other Token) bool {
	return t.value == other.value
}
