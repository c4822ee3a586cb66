package hyperfjwt

// Payload is a read-only view of a token's decoded claims. Payloads are
// created by the manager's decode path or its payload factory and never
// mutated afterwards; accessors copy where aliasing could leak the backing
// map.
type Payload struct {
	claims map[string]any
}

// NewPayload builds a Payload from a claim mapping. The mapping is copied so
// later mutation by the caller cannot reach the payload.
func NewPayload(claims map[string]any) Payload {
	copied := make(map[string]any, len(claims))
	for name, value := range claims {
		copied[name] = value
	}
	return Payload{claims: copied}
}

// Get returns the value of the named claim, or nil when the claim is absent.
func (p Payload) Get(name string) any {
	return p.claims[name]
}

// Has reports whether the named claim is present.
func (p Payload) Has(name string) bool {
	_, ok := p.claims[name]
	return ok
}

// GetString returns the named claim as a string. Absent or non-string claims
// yield "".
func (p Payload) GetString(name string) string {
	value, _ := p.claims[name].(string)
	return value
}

// Claims returns a copy of the full claim mapping.
func (p Payload) Claims() map[string]any {
	copied := make(map[string]any, len(p.claims))
	for name, value := range p.claims {
		copied[name] = value
	}
	return copied
}

// Len returns the number of claims carried by the payload.
func (p Payload) Len() int {
	return len(p.claims)
}
