package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
	"gitlab.com/motorlane/api/motorlane-market-service/pkg/contextkeys"
)

const XRequestIDHeader = "X-Request-ID"

// RequestIDMiddleware injects a request ID into the context.
// It tries to get it from the X-Request-ID header, otherwise generates a new UUID.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(XRequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), contextkeys.RequestIDKey, requestID)
		w.Header().Set(XRequestIDHeader, requestID) // Also set it in the response header
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFromContext retrieves the resolved principal injected by
// BearerAuthMiddleware, or nil when the request is unauthenticated.
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	principal, _ := ctx.Value(contextkeys.PrincipalKey).(*domain.Principal)
	return principal
}
