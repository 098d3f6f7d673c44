package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/config"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

type staticConfig struct{ cfg *config.Config }

func (p staticConfig) Get() *config.Config { return p.cfg }

func verifierFor(serverURL string) *HTTPVerifier {
	return NewHTTPVerifier(staticConfig{cfg: &config.Config{
		Identity: config.IdentityConfig{
			BaseURL:        serverURL,
			ServiceKey:     "svc-key",
			TimeoutSeconds: 1,
		},
	}}, nopLogger{})
}

func TestHTTPVerify_ValidToken(t *testing.T) {
	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "svc-key", r.Header.Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"user-1","email":"u1@example.org","expires_at":"` + expiry.Format(time.RFC3339) + `"}`))
	}))
	defer server.Close()

	principal, err := verifierFor(server.URL).Verify(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.ID)
	assert.Equal(t, "tok-1", principal.Token)
	assert.True(t, principal.ExpiresAt.Equal(expiry))
}

func TestHTTPVerify_RejectedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error_code":"bad_jwt","msg":"invalid signature"}`))
	}))
	defer server.Close()

	_, err := verifierFor(server.URL).Verify(context.Background(), "tok-1")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestHTTPVerify_ExpiredToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error_code":"session_expired","msg":"JWT expired"}`))
	}))
	defer server.Close()

	_, err := verifierFor(server.URL).Verify(context.Background(), "tok-1")
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestHTTPVerify_ProviderUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Closed before use so the dial fails.

	_, err := verifierFor(server.URL).Verify(context.Background(), "tok-1")
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, domain.UpstreamUnreachable, upstream.Kind)
}

func TestHTTPVerify_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := verifierFor(server.URL).Verify(context.Background(), "tok-1")
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, domain.UpstreamUnexpected, upstream.Kind)
}
