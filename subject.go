package hyperfjwt

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Subject is the authenticated entity a token represents. Callers implement
// it on their own user/model types; the facade only consumes it.
type Subject interface {
	// GetIdentifier returns the stable identifier stored in the sub claim.
	GetIdentifier() string
	// GetCustomClaims returns extra claims to embed at issuance. May be nil.
	GetCustomClaims() map[string]any
}

// SubjectHash returns the stable hash used for the prv claim. For a string it
// hashes the string itself (callers passing a type identifier directly);
// for anything else it hashes the value's concrete type name, so every
// instance of one subject model pins to the same value.
func SubjectHash(model any) string {
	var name string
	switch v := model.(type) {
	case string:
		name = v
	default:
		name = fmt.Sprintf("%T", model)
	}
	sum := sha1.Sum([]byte(name))
	return hex.EncodeToString(sum[:])
}
