package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Authentication sentinels. Surface as HTTP 401 with a stable code.
var (
	ErrTokenMissing   = errors.New("bearer token is missing")
	ErrTokenMalformed = errors.New("authorization header is malformed")
	ErrTokenInvalid   = errors.New("bearer token is invalid")
	ErrTokenExpired   = errors.New("bearer token has expired")
	ErrTokenRevoked   = errors.New("bearer token has been revoked")
	ErrProfileMissing = errors.New("no profile exists for principal")
)

// ErrCacheUnavailable wraps cache transport failures. Logged and swallowed
// everywhere except the revocation namespace, where uncertainty denies.
var ErrCacheUnavailable = errors.New("cache unavailable")

// ErrTenantNotFound / ErrVehicleNotFound are store-level absences on the
// read-through paths.
var (
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrVehicleNotFound = errors.New("vehicle not found")
)

// UpstreamKind classifies failures of the identity provider or the
// relational store.
type UpstreamKind string

const (
	UpstreamTimeout     UpstreamKind = "timeout"
	UpstreamUnreachable UpstreamKind = "unreachable"
	UpstreamUnexpected  UpstreamKind = "unexpected"
)

// UpstreamError reports a failed outbound call. Authorization-critical
// paths fail closed on it; pure aggregate reads may degrade past a cache
// failure but still surface store failures.
type UpstreamError struct {
	Kind UpstreamKind
	Op   string
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s during %s: %v", e.Kind, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps err as an upstream failure of the given kind.
func NewUpstreamError(kind UpstreamKind, op string, err error) *UpstreamError {
	return &UpstreamError{Kind: kind, Op: op, Err: err}
}

// ErrorCode represents a specific error condition reported to clients.
type ErrorCode string

const (
	CodeMissingToken     ErrorCode = "MISSING_TOKEN"     // HTTP 401
	CodeMalformedToken   ErrorCode = "MALFORMED_TOKEN"   // HTTP 401
	CodeInvalidToken     ErrorCode = "INVALID_TOKEN"     // HTTP 401
	CodeExpiredToken     ErrorCode = "EXPIRED_TOKEN"     // HTTP 401
	CodeRevokedToken     ErrorCode = "REVOKED_TOKEN"     // HTTP 401
	CodeProfileMissing   ErrorCode = "PROFILE_MISSING"   // HTTP 401
	CodeRoleNotPermitted ErrorCode = "ROLE_NOT_PERMITTED" // HTTP 403
	CodeTenantMismatch   ErrorCode = "TENANT_MISMATCH"   // HTTP 403
	CodeNotOwner         ErrorCode = "NOT_OWNER"         // HTTP 403
	CodeBadRequest       ErrorCode = "BAD_REQUEST"       // HTTP 400
	CodeNotFound         ErrorCode = "NOT_FOUND"         // HTTP 404
	CodeInternal         ErrorCode = "INTERNAL_ERROR"    // HTTP 500
)

// ErrorResponse is the standard failure envelope returned to clients:
// {"success":false,"error":"...","code":"..."}. No internal identifiers or
// stack traces are ever included.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   string    `json:"error"`
	Code    ErrorCode `json:"code"`
}

// NewErrorResponse creates a new ErrorResponse struct.
func NewErrorResponse(code ErrorCode, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	}
}

// WriteJSON sends an ErrorResponse as JSON with the given HTTP status code.
func (er ErrorResponse) WriteJSON(w http.ResponseWriter, httpStatusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	json.NewEncoder(w).Encode(er) // Best effort, error from Encode is not typically handled here.
}
