package middleware

import (
	"context"
	"errors"
	"net/http"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/metrics"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/application"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
	"gitlab.com/motorlane/api/motorlane-market-service/pkg/contextkeys"
)

// BearerAuthMiddleware authenticates the Authorization header, resolves the
// principal's extended profile and injects the completed Principal into the
// request context. It fails fast on a missing or malformed header before
// any network call is made.
func BearerAuthMiddleware(authService *application.AuthService, profileService *application.ProfileService, logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := authService.VerifyRequest(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				logger.Warn(r.Context(), "Authentication failed", "path", r.URL.Path, "error", err.Error())
				writeAuthError(w, err)
				return
			}

			profile, err := profileService.Resolve(r.Context(), principal.ID)
			if err != nil {
				logger.Warn(r.Context(), "Profile resolution failed", "path", r.URL.Path, "principal_id", principal.ID, "error", err.Error())
				writeAuthError(w, err)
				return
			}

			// The principal is completed from the profile exactly once per
			// request and treated as immutable afterwards.
			principal.Role = profile.Role
			principal.TenantID = profile.TenantID
			if principal.Email == "" {
				principal.Email = profile.Email
			}

			ctx := context.WithValue(r.Context(), contextkeys.PrincipalKey, principal)
			ctx = context.WithValue(ctx, contextkeys.PrincipalIDKey, principal.ID)
			ctx = context.WithValue(ctx, contextkeys.TenantIDKey, principal.TenantID)
			ctx = context.WithValue(ctx, contextkeys.RoleKey, principal.Role.String())
			ctx = context.WithValue(ctx, contextkeys.BearerTokenKey, principal.Token)

			logger.Debug(r.Context(), "Request authenticated",
				"path", r.URL.Path,
				"principal_id", principal.ID,
				"role", principal.Role.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerResolver resolves the owner of the addressed resource for rules with
// TenantMatchOwnerOnly. May be nil for routes that carry no such rule.
type OwnerResolver func(r *http.Request) (string, error)

// RequireScope authorizes the authenticated principal against the declared
// scope rules. The first rule that allows wins; when none allow, the most
// specific denial is returned (a tenant or ownership mismatch over a plain
// role rejection). Runs after BearerAuthMiddleware.
func RequireScope(policy *application.AccessPolicy, logger domain.Logger, ownerResolver OwnerResolver, rules ...domain.ScopeRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				domain.NewErrorResponse(domain.CodeMissingToken, "Authentication required").WriteJSON(w, http.StatusUnauthorized)
				return
			}

			requestedTenant := r.PathValue("tenantId")

			ownerID := ""
			if ownerResolver != nil {
				resolved, err := ownerResolver(r)
				if err != nil {
					logger.Error(r.Context(), "Owner resolution failed", "path", r.URL.Path, "error", err.Error())
					domain.NewErrorResponse(domain.CodeInternal, "Authorization could not be evaluated").WriteJSON(w, http.StatusInternalServerError)
					return
				}
				ownerID = resolved
			}

			decision := domain.Deny(domain.DenyRoleNotPermitted)
			for _, rule := range rules {
				d := policy.Authorize(principal, rule, requestedTenant, ownerID)
				if d.Allowed {
					decision = d
					break
				}
				if decision.Reason == domain.DenyRoleNotPermitted {
					decision = d
				}
			}

			if !decision.Allowed {
				logger.Warn(r.Context(), "Authorization denied",
					"path", r.URL.Path,
					"principal_id", principal.ID,
					"requested_tenant", requestedTenant,
					"reason", string(decision.Reason))
				metrics.IncAuthzDenial(string(decision.Reason))
				writeDenial(w, decision.Reason)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeAuthError maps an authentication-path error onto the wire envelope.
// Upstream failures stay opaque: no internal detail leaves the process.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTokenMissing):
		domain.NewErrorResponse(domain.CodeMissingToken, "Bearer token is required").WriteJSON(w, http.StatusUnauthorized)
	case errors.Is(err, domain.ErrTokenMalformed):
		domain.NewErrorResponse(domain.CodeMalformedToken, "Authorization header is malformed").WriteJSON(w, http.StatusUnauthorized)
	case errors.Is(err, domain.ErrTokenExpired):
		domain.NewErrorResponse(domain.CodeExpiredToken, "Bearer token has expired").WriteJSON(w, http.StatusUnauthorized)
	case errors.Is(err, domain.ErrTokenRevoked):
		domain.NewErrorResponse(domain.CodeRevokedToken, "Bearer token has been revoked").WriteJSON(w, http.StatusUnauthorized)
	case errors.Is(err, domain.ErrTokenInvalid):
		domain.NewErrorResponse(domain.CodeInvalidToken, "Bearer token is invalid").WriteJSON(w, http.StatusUnauthorized)
	case errors.Is(err, domain.ErrProfileMissing):
		domain.NewErrorResponse(domain.CodeProfileMissing, "No profile exists for this account").WriteJSON(w, http.StatusUnauthorized)
	default:
		// Upstream or unexpected failure on an authorization-critical path:
		// fail closed with a 500.
		domain.NewErrorResponse(domain.CodeInternal, "Authentication could not be completed").WriteJSON(w, http.StatusInternalServerError)
	}
}

func writeDenial(w http.ResponseWriter, reason domain.DenyReason) {
	switch reason {
	case domain.DenyTenantMismatch:
		domain.NewErrorResponse(domain.CodeTenantMismatch, "Access to this tenant is not permitted").WriteJSON(w, http.StatusForbidden)
	case domain.DenyNotOwner:
		domain.NewErrorResponse(domain.CodeNotOwner, "Only the resource owner may perform this operation").WriteJSON(w, http.StatusForbidden)
	default:
		domain.NewErrorResponse(domain.CodeRoleNotPermitted, "Your role does not permit this operation").WriteJSON(w, http.StatusForbidden)
	}
}
