package hyperfjwt

// Config tunes facade behavior. Build one through [New] and its With*
// methods; the Factory copies it at construction and treats it as immutable
// afterwards.
type Config struct {
	// LockSubject embeds a prv claim at issuance pinning the token to the
	// subject's concrete type, re-checked by Guard.CheckSubjectModel.
	// Enabled by default.
	LockSubject bool

	// Parser extracts raw tokens from inbound requests. Defaults to
	// DefaultParser (Authorization header, query, cookie).
	Parser RequestParser
}

func defaultConfig() Config {
	return Config{
		LockSubject: true,
		Parser:      DefaultParser(),
	}
}
