package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/config"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/metrics"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
	"gitlab.com/motorlane/api/motorlane-market-service/pkg/cachekeys"
)

const bearerPrefix = "Bearer "

// AuthService is the request-time authentication gate. It parses the
// Authorization header, consults the revocation denylist and delegates to
// the verifier strategy chosen at startup.
type AuthService struct {
	logger   domain.Logger
	config   config.Provider
	cache    domain.CacheStore
	verifier domain.TokenVerifier
}

// NewAuthService creates a new AuthService.
func NewAuthService(logger domain.Logger, cfg config.Provider, cache domain.CacheStore, verifier domain.TokenVerifier) *AuthService {
	if logger == nil {
		panic("logger is nil in NewAuthService")
	}
	if cfg == nil {
		panic("config provider is nil in NewAuthService")
	}
	if cache == nil {
		panic("cache store is nil in NewAuthService")
	}
	if verifier == nil {
		panic("token verifier is nil in NewAuthService")
	}
	return &AuthService{logger: logger, config: cfg, cache: cache, verifier: verifier}
}

// ParseBearer extracts the raw token from an Authorization header value.
// It fails fast, before any network call, on a missing or malformed header.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", domain.ErrTokenMissing
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", domain.ErrTokenMalformed
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", domain.ErrTokenMalformed
	}
	return token, nil
}

// VerifyRequest authenticates the Authorization header value and returns
// the verified principal.
//
// The revocation denylist is consulted before the credential is honored.
// For that namespace only, a cache read failure denies: absence of the
// denylist is indistinguishable from "not revoked", so uncertainty resolves
// to the safer outcome.
func (s *AuthService) VerifyRequest(ctx context.Context, authorizationHeader string) (*domain.Principal, error) {
	token, err := ParseBearer(authorizationHeader)
	if err != nil {
		metrics.IncAuthFailure("malformed_header")
		return nil, err
	}

	revoked, err := s.cache.Exists(ctx, cachekeys.RevocationKey(token))
	if err != nil {
		s.logger.Error(ctx, "Revocation denylist unreadable, denying token", "error", err.Error())
		metrics.IncAuthFailure("revocation_check_failed")
		return nil, domain.ErrTokenRevoked
	}
	if revoked {
		s.logger.Warn(ctx, "Rejected revoked token")
		metrics.IncAuthFailure("revoked")
		return nil, domain.ErrTokenRevoked
	}

	principal, err := s.verifier.Verify(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			metrics.IncAuthFailure("expired")
		case errors.Is(err, domain.ErrTokenInvalid):
			metrics.IncAuthFailure("invalid")
		default:
			metrics.IncAuthFailure("upstream")
		}
		return nil, err
	}

	s.logger.Debug(ctx, "Token verified", "principal_id", principal.ID, "verifier_mode", s.verifier.Mode())
	return principal, nil
}

// RevokeToken writes the denylist marker for the principal's token with TTL
// equal to the credential's remaining validity. A marker that cannot be
// written means the session is still honored, so the failure is surfaced to
// the caller instead of being swallowed.
func (s *AuthService) RevokeToken(ctx context.Context, principal *domain.Principal) error {
	if principal == nil || principal.Token == "" {
		return domain.ErrTokenMissing
	}

	ttl := time.Duration(s.config.Get().Identity.DefaultRevocationTTLSeconds) * time.Second
	if !principal.ExpiresAt.IsZero() {
		if remaining := time.Until(principal.ExpiresAt); remaining > 0 {
			ttl = remaining
		}
	}
	if ttl <= 0 {
		// Already expired; nothing left to revoke.
		return nil
	}

	key := cachekeys.RevocationKey(principal.Token)
	if err := s.cache.Set(ctx, key, []byte("revoked"), ttl); err != nil {
		s.logger.Error(ctx, "Failed to write revocation marker", "principal_id", principal.ID, "error", err.Error())
		return err
	}
	s.logger.Info(ctx, "Token revoked", "principal_id", principal.ID, "ttl", ttl.String())
	return nil
}
