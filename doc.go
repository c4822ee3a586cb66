// Package hyperfjwt provides a request-scoped facade over a JWT token
// lifecycle: issuing tokens for authenticated subjects, parsing and
// validating incoming tokens, refreshing them, and invalidating them through
// a blacklist.
//
// The package separates two lifetimes. A [Factory] is built once with a
// [TokenManager] and a [Config] and is safe for concurrent use. A [Guard] is
// minted per request via [Factory.ForRequest]; it owns the current-token slot
// for exactly one request and must not be shared between goroutines.
//
// # Architecture boundaries
//
// hyperfjwt is the public surface. Cryptographic encode/decode and refresh
// policy live behind the [TokenManager] interface (implemented by the manager
// subpackage on golang-jwt), and revocation storage lives behind
// blacklist.Blacklist (Redis or in-memory). The facade performs no I/O of its
// own: every store round-trip happens inside the manager, bounded by the
// caller's context.
//
// # Subject pinning
//
// When [Config].LockSubject is enabled (the default), tokens issued through
// [Guard.FromSubject] carry a "prv" claim: a stable hash of the subject's
// concrete type. [Guard.CheckSubjectModel] re-checks that hash so a token
// minted for one subject model cannot be replayed against another. Tokens
// without a "prv" claim are treated as unpinned and pass the check.
package hyperfjwt
