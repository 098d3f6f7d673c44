package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/config"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

func TestDetectMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.IdentityConfig
		want Mode
	}{
		{
			name: "configured provider",
			cfg:  config.IdentityConfig{BaseURL: "https://id.motorlane.example.org", ServiceKey: "svc-key"},
			want: ModeRemote,
		},
		{name: "empty base url", cfg: config.IdentityConfig{ServiceKey: "svc-key"}, want: ModeSeed},
		{name: "empty service key", cfg: config.IdentityConfig{BaseURL: "https://id.motorlane.example.org"}, want: ModeSeed},
		{
			name: "placeholder url",
			cfg:  config.IdentityConfig{BaseURL: "https://your-project.supabase.co", ServiceKey: "svc-key"},
			want: ModeSeed,
		},
		{
			name: "example domain",
			cfg:  config.IdentityConfig{BaseURL: "https://id.example.com", ServiceKey: "svc-key"},
			want: ModeSeed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMode(tt.cfg))
		})
	}
}

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, fields ...any) {}
func (nopLogger) Info(ctx context.Context, msg string, fields ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, fields ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, fields ...any) {}
func (nopLogger) Fatal(ctx context.Context, msg string, fields ...any) {}
func (l nopLogger) With(fields ...any) domain.Logger                   { return l }

func TestSeedVerifier_FixedPrincipal(t *testing.T) {
	verifier := NewSeedVerifier(nopLogger{})
	assert.Equal(t, "seed", verifier.Mode())

	first, err := verifier.Verify(context.Background(), "any-token")
	require.NoError(t, err)
	second, err := verifier.Verify(context.Background(), "another-token")
	require.NoError(t, err)

	assert.Equal(t, SeedPrincipalID, first.ID)
	assert.Equal(t, first.ID, second.ID, "every token maps to the same synthetic principal")
	assert.Equal(t, "any-token", first.Token)
}

func TestSeedProfile_MatchesSeedPrincipal(t *testing.T) {
	profile := SeedProfile()
	require.NotNil(t, profile)
	assert.Equal(t, SeedPrincipalID, profile.PrincipalID)
	assert.NotEmpty(t, profile.TenantID)
}
