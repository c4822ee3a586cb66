package manager

import (
	"time"

	"github.com/google/uuid"

	hyperfjwt "github.com/kwm/hyperf-jwt"
)

// PayloadFactory materializes payloads for issuance, stamping the standard
// temporal claims over whatever the caller supplies. jti, iat, nbf, and exp
// are always fresh per issuance; callers cannot pre-seed them.
type PayloadFactory struct {
	ttl    time.Duration
	issuer string
}

// Make implements hyperfjwt.PayloadFactory.
func (f *PayloadFactory) Make(claims map[string]any) (hyperfjwt.Payload, error) {
	merged := make(map[string]any, len(claims)+5)
	for name, value := range claims {
		merged[name] = value
	}

	now := time.Now()
	merged["jti"] = uuid.NewString()
	merged["iat"] = now.Unix()
	merged["nbf"] = now.Unix()
	merged["exp"] = now.Add(f.ttl).Unix()
	if f.issuer != "" {
		merged["iss"] = f.issuer
	}

	return hyperfjwt.NewPayload(merged), nil
}
