package http

import (
	"errors"
	"net/http"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/middleware"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/application"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

// Handlers carries the read-side HTTP surface: dashboard aggregates, the
// vehicle detail read-through and session revocation.
type Handlers struct {
	logger    domain.Logger
	auth      *application.AuthService
	dashboard *application.DashboardService
	vehicles  *application.VehicleService
	tenants   *application.TenantService
}

// NewHandlers creates the handler set.
func NewHandlers(logger domain.Logger, auth *application.AuthService, dashboard *application.DashboardService, vehicles *application.VehicleService, tenants *application.TenantService) *Handlers {
	return &Handlers{logger: logger, auth: auth, dashboard: dashboard, vehicles: vehicles, tenants: tenants}
}

// DashboardOverview serves GET /api/tenants/{tenantId}/dashboard?period=30d.
func (h *Handlers) DashboardOverview(w http.ResponseWriter, r *http.Request) {
	tenantID := r.PathValue("tenantId")

	period := r.URL.Query().Get("period")
	if period == "" {
		period = string(domain.Window30d)
	}
	window, err := domain.ParseWindowKind(period)
	if err != nil {
		domain.NewErrorResponse(domain.CodeBadRequest, "Unknown period; expected one of 7d, 30d, 90d, 1y").WriteJSON(w, http.StatusBadRequest)
		return
	}

	snapshot, err := h.dashboard.Overview(r.Context(), tenantID, window)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, snapshot)
}

// DashboardStats serves GET /api/tenants/{tenantId}/dashboard/stats.
func (h *Handlers) DashboardStats(w http.ResponseWriter, r *http.Request) {
	tenantID := r.PathValue("tenantId")

	snapshot, err := h.dashboard.Stats(r.Context(), tenantID)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, snapshot)
}

// GetTenant serves GET /api/tenants/{tenantId}.
func (h *Handlers) GetTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := r.PathValue("tenantId")

	tenant, err := h.tenants.GetTenant(r.Context(), tenantID)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, tenant)
}

// GetVehicle serves GET /api/tenants/{tenantId}/vehicles/{vehicleId}.
func (h *Handlers) GetVehicle(w http.ResponseWriter, r *http.Request) {
	tenantID := r.PathValue("tenantId")
	vehicleID := r.PathValue("vehicleId")

	vehicle, err := h.vehicles.GetVehicle(r.Context(), tenantID, vehicleID)
	if err != nil {
		h.writeReadError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, vehicle)
}

// Logout serves POST /api/auth/logout: the presented token is written to
// the revocation denylist for its remaining validity.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		domain.NewErrorResponse(domain.CodeMissingToken, "Authentication required").WriteJSON(w, http.StatusUnauthorized)
		return
	}

	if err := h.auth.RevokeToken(r.Context(), principal); err != nil {
		// An unwritten marker means the session would still be honored, so
		// the logout must report failure rather than pretend.
		h.logger.Error(r.Context(), "Logout failed to write revocation marker", "error", err.Error())
		domain.NewErrorResponse(domain.CodeInternal, "Logout could not be completed").WriteJSON(w, http.StatusInternalServerError)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// writeReadError maps read-path errors onto the wire envelope.
func (h *Handlers) writeReadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrTenantNotFound), errors.Is(err, domain.ErrVehicleNotFound):
		domain.NewErrorResponse(domain.CodeNotFound, "Resource not found").WriteJSON(w, http.StatusNotFound)
	default:
		h.logger.Error(r.Context(), "Read path failed", "path", r.URL.Path, "error", err.Error())
		domain.NewErrorResponse(domain.CodeInternal, "Request could not be completed").WriteJSON(w, http.StatusInternalServerError)
	}
}
