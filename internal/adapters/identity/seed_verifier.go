package identity

import (
	"context"
	"time"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

const (
	// SeedPrincipalID is the fixed identity substituted when no identity
	// provider is configured. Clearly labeled so it can never be mistaken
	// for a real account.
	SeedPrincipalID = "seed-principal"
	seedEmail       = "seed@motorlane.local"
	seedTenantID    = "seed-tenant"
)

// SeedVerifier implements domain.TokenVerifier for deployments without a
// reachable identity provider. Every non-empty token resolves to the same
// synthetic principal; selection happened once at startup from
// configuration validity, never per request.
type SeedVerifier struct {
	logger domain.Logger
}

// NewSeedVerifier creates the seed strategy and logs loudly that identity
// verification is disabled.
func NewSeedVerifier(logger domain.Logger) *SeedVerifier {
	logger.Error(context.Background(),
		"Identity provider configuration absent or placeholder; running with the SEED principal. All requests authenticate as a synthetic identity. Never run this mode against production data.")
	return &SeedVerifier{logger: logger}
}

// Verify substitutes the fixed synthetic principal.
func (v *SeedVerifier) Verify(ctx context.Context, rawToken string) (*domain.Principal, error) {
	v.logger.Warn(ctx, "Seed verifier substituting synthetic principal", "principal_id", SeedPrincipalID)
	return &domain.Principal{
		ID:        SeedPrincipalID,
		Email:     seedEmail,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		Token:     rawToken,
	}, nil
}

// Mode identifies the strategy for logs and the readiness probe.
func (v *SeedVerifier) Mode() string {
	return string(ModeSeed)
}

// SeedProfile is the extended profile paired with the seed principal, used
// by the profile resolver in seed mode so the whole request path stays
// runnable without a relational store.
func SeedProfile() *domain.ExtendedProfile {
	now := time.Unix(0, 0).UTC()
	return &domain.ExtendedProfile{
		PrincipalID: SeedPrincipalID,
		Email:       seedEmail,
		DisplayName: "Seed Principal",
		Role:        domain.RoleDealerAdmin,
		TenantID:    seedTenantID,
		TenantName:  "Seed Tenant",
		TenantKind:  "dealer",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
