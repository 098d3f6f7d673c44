package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/config"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

// HTTPVerifier implements domain.TokenVerifier against the identity
// provider's HTTP API. One network call per verification: GET /auth/v1/user
// with the bearer token; the provider echoes back the credential's subject
// and expiry.
type HTTPVerifier struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     domain.Logger
}

// NewHTTPVerifier creates the remote verifier. The timeout bounds every
// verification call; on expiry the caller sees an UpstreamError and fails
// closed.
func NewHTTPVerifier(cfgProvider config.Provider, logger domain.Logger) *HTTPVerifier {
	idCfg := cfgProvider.Get().Identity
	timeout := 5 * time.Second
	if idCfg.TimeoutSeconds > 0 {
		timeout = time.Duration(idCfg.TimeoutSeconds) * time.Second
	}
	return &HTTPVerifier{
		baseURL:    strings.TrimRight(idCfg.BaseURL, "/"),
		serviceKey: idCfg.ServiceKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// verifyUserResponse is the provider's "verify token" response body.
type verifyUserResponse struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	ExpiresAt time.Time      `json:"expires_at"`
	Metadata  map[string]any `json:"user_metadata"`
}

// verifyErrorResponse is the provider's rejection body.
type verifyErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"msg"`
}

// Verify validates rawToken with the identity provider and returns the
// verified principal. Role and tenant are not the provider's concern; the
// profile resolver fills them in afterwards.
func (v *HTTPVerifier) Verify(ctx context.Context, rawToken string) (*domain.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, domain.NewUpstreamError(domain.UpstreamUnexpected, "identity.verify", err)
	}
	req.Header.Set("Authorization", "Bearer "+rawToken)
	req.Header.Set("apikey", v.serviceKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			v.logger.Warn(ctx, "Identity provider verification timed out")
			return nil, domain.NewUpstreamError(domain.UpstreamTimeout, "identity.verify", err)
		}
		v.logger.Warn(ctx, "Identity provider unreachable", "error", err.Error())
		return nil, domain.NewUpstreamError(domain.UpstreamUnreachable, "identity.verify", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var user verifyUserResponse
		if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
			return nil, domain.NewUpstreamError(domain.UpstreamUnexpected, "identity.verify", err)
		}
		if user.ID == "" {
			return nil, domain.NewUpstreamError(domain.UpstreamUnexpected, "identity.verify",
				errors.New("provider returned a user without an id"))
		}
		return &domain.Principal{
			ID:         user.ID,
			Email:      user.Email,
			RawProfile: user.Metadata,
			ExpiresAt:  user.ExpiresAt,
			Token:      rawToken,
		}, nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var rejection verifyErrorResponse
		_ = json.Unmarshal(body, &rejection)
		if strings.Contains(rejection.ErrorCode, "expired") || strings.Contains(strings.ToLower(rejection.Message), "expired") {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid

	default:
		v.logger.Error(ctx, "Identity provider returned unexpected status", "status", resp.StatusCode)
		return nil, domain.NewUpstreamError(domain.UpstreamUnexpected, "identity.verify",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

// Mode identifies the strategy for logs and the readiness probe.
func (v *HTTPVerifier) Mode() string {
	return string(ModeRemote)
}
