package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/config"
	apphttp "gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/http"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/identity"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/logger"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/memcache"
	appnats "gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/nats"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/postgres"
	appredis "gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/redis"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/seedstore"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/application"
	"gitlab.com/motorlane/api/motorlane-market-service/internal/domain"
)

// InitialZapLoggerProvider provides a basic *zap.Logger instance, primarily for config initialization.
// It returns the logger, a cleanup function (for syncing), and an error if creation fails.
func InitialZapLoggerProvider() (*zap.Logger, func(), error) {
	logger, err := zap.NewProduction()
	if err != nil {
		logger, err = zap.NewDevelopment()
		if err != nil {
			// As a last resort, use NewExample, which does not return an error.
			logger = zap.NewExample()
			fmt.Fprintf(os.Stderr, "Failed to create initial zap logger (production and development failed, falling back to example): %v\n", err)
		}
	}

	cleanup := func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to sync initial zap logger: %v\n", syncErr)
		}
	}
	return logger, cleanup, nil
}

// ConfigProvider provides the application configuration.
func ConfigProvider(appCtx context.Context, logger *zap.Logger) (config.Provider, error) {
	return config.NewViperProvider(appCtx, logger)
}

// LoggerProvider provides the application logger.
func LoggerProvider(cfgProvider config.Provider) (domain.Logger, error) {
	appCfg := cfgProvider.Get()
	return logger.NewZapAdapter(cfgProvider, appCfg.App.ServiceName)
}

// CacheBackend bundles the selected cache store with the Redis client that
// backs it, when one exists. The readiness probe needs the raw client.
type CacheBackend struct {
	Store       domain.CacheStore
	RedisClient *redis.Client // nil when the in-process adapter is selected
}

// CacheBackendProvider selects the cache backend once at startup: Redis
// when an address is configured, the in-process ttlcache otherwise.
func CacheBackendProvider(cfgProvider config.Provider, appLogger domain.Logger) (*CacheBackend, func(), error) {
	appCfg := cfgProvider.Get()

	if appCfg.Redis.Address == "" {
		appLogger.Warn(context.Background(), "No Redis address configured; using in-process cache")
		store, cleanup := memcache.NewTTLStoreAdapter(appLogger)
		return &CacheBackend{Store: store}, cleanup, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     appCfg.Redis.Address,
		Password: appCfg.Redis.Password,
		DB:       appCfg.Redis.DB,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		appLogger.Error(context.Background(), "Failed to connect to Redis", "error", err.Error(), "address", appCfg.Redis.Address)
		return nil, nil, fmt.Errorf("failed to connect to Redis at %s: %w", appCfg.Redis.Address, err)
	}
	cleanup := func() {
		client.Close()
		appLogger.Info(context.Background(), "Redis connection closed")
	}
	appLogger.Info(context.Background(), "Successfully connected to Redis", "address", appCfg.Redis.Address)
	return &CacheBackend{
		Store:       appredis.NewCacheStoreAdapter(client, appLogger),
		RedisClient: client,
	}, cleanup, nil
}

// TokenVerifierProvider selects the verification strategy exactly once from
// configuration validity.
func TokenVerifierProvider(cfgProvider config.Provider, appLogger domain.Logger) domain.TokenVerifier {
	if identity.DetectMode(cfgProvider.Get().Identity) == identity.ModeSeed {
		return identity.NewSeedVerifier(appLogger)
	}
	return identity.NewHTTPVerifier(cfgProvider, appLogger)
}

// SeedProfileProvider yields the synthetic profile in seed mode, nil
// otherwise. The profile service treats nil as "resolve from the store".
func SeedProfileProvider(cfgProvider config.Provider) *domain.ExtendedProfile {
	if identity.DetectMode(cfgProvider.Get().Identity) == identity.ModeSeed {
		return identity.SeedProfile()
	}
	return nil
}

// StoreBackend bundles the selected relational stores with the pgx pool
// that backs them, when one exists.
type StoreBackend struct {
	Pool     *pgxpool.Pool // nil when the seed store is selected
	Profiles domain.ProfileStore
	Tenants  domain.TenantStore
	Vehicles domain.VehicleStore
}

// StoreBackendProvider selects the relational backend once at startup:
// Postgres when a DSN is configured, the in-memory seed store otherwise.
func StoreBackendProvider(appCtx context.Context, cfgProvider config.Provider, appLogger domain.Logger) (*StoreBackend, func(), error) {
	if cfgProvider.Get().Postgres.DSN == "" {
		store := seedstore.New(appLogger)
		return &StoreBackend{Profiles: store, Tenants: store, Vehicles: store}, func() {}, nil
	}

	pool, cleanup, err := postgres.Connect(appCtx, cfgProvider, appLogger)
	if err != nil {
		return nil, nil, err
	}
	adapter := postgres.NewStoreAdapter(pool, cfgProvider, appLogger)
	return &StoreBackend{Pool: pool, Profiles: adapter, Tenants: adapter, Vehicles: adapter}, cleanup, nil
}

// AuthServiceProvider provides the AuthService.
func AuthServiceProvider(appLogger domain.Logger, cfgProvider config.Provider, backend *CacheBackend, verifier domain.TokenVerifier) *application.AuthService {
	return application.NewAuthService(appLogger, cfgProvider, backend.Store, verifier)
}

// ProfileServiceProvider provides the ProfileService.
func ProfileServiceProvider(appLogger domain.Logger, cfgProvider config.Provider, backend *CacheBackend, stores *StoreBackend, seed *domain.ExtendedProfile) *application.ProfileService {
	return application.NewProfileService(appLogger, cfgProvider, backend.Store, stores.Profiles, seed)
}

// AccessPolicyProvider provides the pure tenant access policy.
func AccessPolicyProvider() *application.AccessPolicy {
	return application.NewAccessPolicy()
}

// DashboardServiceProvider provides the aggregation engine.
func DashboardServiceProvider(appLogger domain.Logger, cfgProvider config.Provider, backend *CacheBackend, stores *StoreBackend) *application.DashboardService {
	return application.NewDashboardService(appLogger, cfgProvider, backend.Store, stores.Vehicles)
}

// TenantServiceProvider provides the tenant read-through service.
func TenantServiceProvider(appLogger domain.Logger, cfgProvider config.Provider, backend *CacheBackend, stores *StoreBackend) *application.TenantService {
	return application.NewTenantService(appLogger, cfgProvider, backend.Store, stores.Tenants)
}

// VehicleServiceProvider provides the vehicle read-through service.
func VehicleServiceProvider(appLogger domain.Logger, cfgProvider config.Provider, backend *CacheBackend, stores *StoreBackend) *application.VehicleService {
	return application.NewVehicleService(appLogger, cfgProvider, backend.Store, stores.Vehicles)
}

// InvalidationServiceProvider provides the invalidation service.
func InvalidationServiceProvider(appLogger domain.Logger, backend *CacheBackend) *application.InvalidationService {
	return application.NewInvalidationService(appLogger, backend.Store)
}

// HandlersProvider provides the HTTP handler set.
func HandlersProvider(appLogger domain.Logger, auth *application.AuthService, dashboard *application.DashboardService, vehicles *application.VehicleService, tenants *application.TenantService) *apphttp.Handlers {
	return apphttp.NewHandlers(appLogger, auth, dashboard, vehicles, tenants)
}

// InvalidationConsumerProvider provides the NATS invalidation consumer, or
// nil when no NATS URL is configured.
func InvalidationConsumerProvider(appCtx context.Context, cfgProvider config.Provider, appLogger domain.Logger, invalidation *application.InvalidationService) (*appnats.InvalidationConsumerAdapter, func(), error) {
	if cfgProvider.Get().NATS.URL == "" {
		appLogger.Warn(context.Background(), "No NATS URL configured; entity-write invalidation events will not be consumed")
		return nil, func() {}, nil
	}
	return appnats.NewInvalidationConsumerAdapter(appCtx, cfgProvider, appLogger, invalidation)
}

// HTTPServeMuxProvider provides the main HTTP multiplexer.
func HTTPServeMuxProvider() *http.ServeMux {
	return http.NewServeMux()
}

// HTTPGracefulServerProvider provides a new HTTP server configured for graceful shutdown.
func HTTPGracefulServerProvider(cfgProvider config.Provider, mux *http.ServeMux) *http.Server {
	appCfg := cfgProvider.Get()

	readTimeout := 10 * time.Second
	writeTimeout := 10 * time.Second
	idleTimeout := 60 * time.Second

	if appCfg.App.WriteTimeoutSeconds > 0 {
		writeTimeout = time.Duration(appCfg.App.WriteTimeoutSeconds) * time.Second
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", appCfg.Server.HTTPPort),
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}

// App aggregates everything Run needs.
type App struct {
	configProvider config.Provider
	logger         domain.Logger
	httpServeMux   *http.ServeMux
	httpServer     *http.Server
	handlers       *apphttp.Handlers
	authService    *application.AuthService
	profileService *application.ProfileService
	accessPolicy   *application.AccessPolicy
	verifier       domain.TokenVerifier
	cacheBackend   *CacheBackend
	storeBackend   *StoreBackend
	consumer       *appnats.InvalidationConsumerAdapter
}

// NewApp is the constructor for App, also for Wire.
func NewApp(
	cfgProvider config.Provider,
	appLogger domain.Logger,
	mux *http.ServeMux,
	server *http.Server,
	handlers *apphttp.Handlers,
	authService *application.AuthService,
	profileService *application.ProfileService,
	accessPolicy *application.AccessPolicy,
	verifier domain.TokenVerifier,
	cacheBackend *CacheBackend,
	storeBackend *StoreBackend,
	consumer *appnats.InvalidationConsumerAdapter,
) (*App, func(), error) {
	app := &App{
		configProvider: cfgProvider,
		logger:         appLogger,
		httpServeMux:   mux,
		httpServer:     server,
		handlers:       handlers,
		authService:    authService,
		profileService: profileService,
		accessPolicy:   accessPolicy,
		verifier:       verifier,
		cacheBackend:   cacheBackend,
		storeBackend:   storeBackend,
		consumer:       consumer,
	}

	cleanup := func() {
		app.logger.Info(context.Background(), "Running app cleanup...")
		if app.consumer != nil {
			if err := app.consumer.Stop(); err != nil {
				app.logger.Error(context.Background(), "Error stopping invalidation consumer", "error", err.Error())
			}
		}
	}
	return app, cleanup, nil
}

// ProviderSet is the wire provider set for the whole application.
var ProviderSet = wire.NewSet(
	InitialZapLoggerProvider,
	ConfigProvider,
	LoggerProvider,
	CacheBackendProvider,
	TokenVerifierProvider,
	SeedProfileProvider,
	StoreBackendProvider,
	AuthServiceProvider,
	ProfileServiceProvider,
	AccessPolicyProvider,
	DashboardServiceProvider,
	TenantServiceProvider,
	VehicleServiceProvider,
	InvalidationServiceProvider,
	HandlersProvider,
	InvalidationConsumerProvider,
	HTTPServeMuxProvider,
	HTTPGracefulServerProvider,
	NewApp,
)
