package domain

import "context"

// TokenVerifier validates a raw bearer token and yields the verified
// principal. The concrete strategy is chosen exactly once at startup:
// either the remote identity-provider verifier or, when the identity
// configuration is absent or a known placeholder, the seed verifier that
// substitutes a fixed synthetic principal. Selection never depends on
// anything request-supplied.
type TokenVerifier interface {
	// Verify validates rawToken against the identity provider. It returns
	// ErrTokenInvalid/ErrTokenExpired for rejected credentials and an
	// *UpstreamError when the provider cannot be reached; the revocation
	// check is the caller's concern.
	Verify(ctx context.Context, rawToken string) (*Principal, error)

	// Mode identifies the strategy ("remote" or "seed") for logs and the
	// readiness probe.
	Mode() string
}
