package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/middleware"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
	"gitlab.com/motorlane/api/motorlane-market-service/pkg/safego"
)

// NOTE: The App struct and NewApp function are defined in providers.go for Wire.
// This file should only contain methods for the App struct, like Run().

// Read routes on tenant-scoped resources compose two rules: buyers read any
// tenant's public data, tenant-bound roles read only their own tenant. The
// first rule that allows a request wins.
var (
	tenantReadAnyRule = domain.ScopeRule{
		RequiredRoles: []domain.Role{domain.RoleBuyer},
		TenantMatch:   domain.TenantMatchAny,
	}
	tenantReadScopedRule = domain.ScopeRule{
		RequiredRoles: []domain.Role{
			domain.RoleIndividualSeller,
			domain.RoleDealerSeller,
			domain.RoleDealerAdmin,
			domain.RoleBranchManager,
			domain.RoleCorporateAdmin,
		},
		TenantMatch: domain.TenantMatchExact,
	}
)

// Run starts the application, listens for HTTP requests, and handles graceful shutdown.
func (a *App) Run(ctx context.Context) error {
	version := "unknown"
	serviceName := "motorlane-market-service"
	if a.configProvider != nil && a.configProvider.Get() != nil {
		configApp := a.configProvider.Get().App
		if configApp.Version != "" {
			version = configApp.Version
		}
		if configApp.ServiceName != "" {
			serviceName = configApp.ServiceName
		}
	}
	a.logger.Info(ctx, "Starting application",
		"service_name", serviceName,
		"version", version,
		"identity_mode", a.verifier.Mode())

	// Setup HTTP routes
	healthHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, `{"status":"OK"}`)
	})
	a.httpServeMux.Handle("GET /health", middleware.RequestIDMiddleware(healthHandler))

	readyHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		ready := true
		dependenciesStatus := make(map[string]string)

		// Seed-mode substitutions keep the process runnable but must stay
		// visible to anyone probing it.
		dependenciesStatus["identity"] = a.verifier.Mode()

		if a.cacheBackend != nil && a.cacheBackend.RedisClient != nil {
			if err := a.cacheBackend.RedisClient.Ping(r.Context()).Err(); err == nil {
				dependenciesStatus["redis"] = "connected"
			} else {
				dependenciesStatus["redis"] = "disconnected"
				ready = false
				a.logger.Warn(r.Context(), "Readiness check failed: Redis ping failed", "error", err.Error())
			}
		} else {
			dependenciesStatus["redis"] = "in_process"
		}

		if a.storeBackend != nil && a.storeBackend.Pool != nil {
			if err := a.storeBackend.Pool.Ping(r.Context()); err == nil {
				dependenciesStatus["postgres"] = "connected"
			} else {
				dependenciesStatus["postgres"] = "disconnected"
				ready = false
				a.logger.Warn(r.Context(), "Readiness check failed: Postgres ping failed", "error", err.Error())
			}
		} else {
			dependenciesStatus["postgres"] = "seed"
		}

		if a.consumer != nil {
			if conn := a.consumer.NatsConn(); conn != nil && conn.Status() == nats.CONNECTED {
				dependenciesStatus["nats"] = "connected"
			} else {
				dependenciesStatus["nats"] = "disconnected"
				ready = false
				a.logger.Warn(r.Context(), "Readiness check failed: NATS disconnected")
			}
		} else {
			dependenciesStatus["nats"] = "not_configured"
		}

		response := struct {
			Status       string            `json:"status"`
			Dependencies map[string]string `json:"dependencies"`
		}{
			Dependencies: dependenciesStatus,
		}

		if ready {
			response.Status = "READY"
			w.WriteHeader(http.StatusOK)
		} else {
			response.Status = "NOT_READY"
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			a.logger.Error(r.Context(), "Failed to encode readiness response", "error", err)
		}
	})
	a.httpServeMux.Handle("GET /ready", middleware.RequestIDMiddleware(readyHandler))

	// Register Prometheus metrics handler
	a.httpServeMux.Handle("GET /metrics", middleware.RequestIDMiddleware(promhttp.Handler()))
	a.logger.Info(ctx, "Prometheus metrics endpoint registered at /metrics")

	a.registerAPIRoutes(ctx)

	if a.consumer != nil {
		if err := a.consumer.Start(ctx); err != nil {
			a.logger.Error(ctx, "Failed to start cache invalidation consumer", "error", err.Error())
			return fmt.Errorf("failed to start cache invalidation consumer: %w", err)
		}
		a.logger.Info(ctx, "Cache invalidation consumer started successfully")
	}

	safego.Execute(ctx, a.logger, "SignalListenerAndGracefulShutdown", func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-quit:
			a.logger.Info(context.Background(), "Shutdown signal received, initiating graceful shutdown...", "signal", sig.String())
		case <-ctx.Done():
			a.logger.Info(context.Background(), "Application context cancelled, initiating graceful shutdown...")
		}

		shutdownTimeout := 30 * time.Second
		if a.configProvider != nil && a.configProvider.Get() != nil {
			configApp := a.configProvider.Get().App
			if configApp.ShutdownTimeoutSeconds > 0 {
				shutdownTimeout = time.Duration(configApp.ShutdownTimeoutSeconds) * time.Second
			}
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if a.consumer != nil {
			a.logger.Info(context.Background(), "Stopping cache invalidation consumer...")
			if err := a.consumer.Stop(); err != nil {
				a.logger.Error(context.Background(), "Error stopping cache invalidation consumer", "error", err.Error())
			}
		}

		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error(context.Background(), "HTTP server graceful shutdown failed", "error", err.Error())
		}
		a.logger.Info(context.Background(), "HTTP server shut down.")
	})

	a.logger.Info(ctx, fmt.Sprintf("HTTP server listening on port %d", a.configProvider.Get().Server.HTTPPort))
	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error(ctx, "HTTP server ListenAndServe error", "error", err.Error())
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	a.logger.Info(ctx, "Application shut down gracefully or server closed.")
	return nil
}

// registerAPIRoutes wires the authenticated API surface. Every route runs the
// same chain: request ID, bearer authentication, then scope authorization
// where the resource is tenant-bound.
func (a *App) registerAPIRoutes(ctx context.Context) {
	authn := middleware.BearerAuthMiddleware(a.authService, a.profileService, a.logger)

	chain := func(h http.HandlerFunc, rules ...domain.ScopeRule) http.Handler {
		var handler http.Handler = h
		if len(rules) > 0 {
			handler = middleware.RequireScope(a.accessPolicy, a.logger, nil, rules...)(handler)
		}
		return middleware.RequestIDMiddleware(authn(handler))
	}

	a.httpServeMux.Handle("GET /api/tenants/{tenantId}/dashboard",
		chain(a.handlers.DashboardOverview, tenantReadAnyRule, tenantReadScopedRule))
	a.httpServeMux.Handle("GET /api/tenants/{tenantId}/dashboard/stats",
		chain(a.handlers.DashboardStats, tenantReadAnyRule, tenantReadScopedRule))
	a.httpServeMux.Handle("GET /api/tenants/{tenantId}",
		chain(a.handlers.GetTenant, tenantReadAnyRule, tenantReadScopedRule))
	a.httpServeMux.Handle("GET /api/tenants/{tenantId}/vehicles/{vehicleId}",
		chain(a.handlers.GetVehicle, tenantReadAnyRule, tenantReadScopedRule))
	a.httpServeMux.Handle("POST /api/auth/logout", chain(a.handlers.Logout))

	a.logger.Info(ctx, "API routes registered")
}
