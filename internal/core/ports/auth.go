package ports

import "context"

// Authenticator is the host's caller-identity capability. The invoking
// identity is established at the transport boundary, by verifying the
// signature of the request, and carried in the context.
type Authenticator interface {
	// Caller returns the authenticated invoking identity of the context.
	Caller(ctx context.Context) (string, error)
	// RequireAuth fails unless the invoking identity of the context is
	// authenticated as the given identity.
	RequireAuth(ctx context.Context, identity string) error
}
