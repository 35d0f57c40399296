package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/grocery/admin/internal/application/catalog"
	identityapp "github.com/grocery/admin/internal/application/identity"
	reportapp "github.com/grocery/admin/internal/application/report"
	"github.com/grocery/admin/internal/application/state"
	tradeapp "github.com/grocery/admin/internal/application/trade"
	"github.com/grocery/admin/internal/domain/display"
	"github.com/grocery/admin/internal/domain/identity"
	"github.com/grocery/admin/internal/infrastructure/auth"
	"github.com/grocery/admin/internal/infrastructure/config"
	"github.com/grocery/admin/internal/infrastructure/logger"
	"github.com/grocery/admin/internal/infrastructure/telemetry"
	"github.com/grocery/admin/internal/infrastructure/upstream"
	"github.com/grocery/admin/internal/interfaces/http/handler"
	"github.com/grocery/admin/internal/interfaces/http/middleware"
	"github.com/grocery/admin/internal/interfaces/http/router"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting grocery admin",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
	)

	ctx := context.Background()

	// Tracing and metrics
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	metrics := telemetry.NewMetrics()

	// Remote data store
	client, err := upstream.NewClient(cfg.Upstream,
		upstream.WithRecorder(metrics),
		upstream.WithLogger(log),
	)
	if err != nil {
		log.Fatal("Failed to create upstream client", zap.Error(err))
	}
	productRepo := upstream.NewProductRepository(client)
	categoryRepo := upstream.NewCategoryRepository(client)
	orderRepo := upstream.NewOrderRepository(client)
	analyticsRepo := upstream.NewAnalyticsRepository(client)
	authGateway := upstream.NewAuthGateway(client)

	// Sessions
	sessionStore, checks, closeStore := newSessionStore(cfg, log)
	defer closeStore()

	tokenService, err := auth.NewSessionTokenService(cfg.Session)
	if err != nil {
		log.Fatal("Failed to create session token service", zap.Error(err))
	}
	if cfg.Session.Secret == "" {
		log.Warn("session.secret is empty, sessions will not survive a restart")
	}

	// Application services
	settings := state.Settings{
		CacheTTL: cfg.Listing.CacheTTL,
		Location: cfg.Listing.Location(),
		Observer: metrics,
	}
	images := display.NewImageResolver(cfg.Media.Origin, cfg.Media.Placeholder)

	productService := catalogapp.NewProductService(productRepo, images, settings)
	categoryService := catalogapp.NewCategoryService(categoryRepo, settings)
	orderService := tradeapp.NewOrderService(orderRepo, images, settings)
	dashboardService := reportapp.NewDashboardService(orderService, productService, analyticsRepo)
	authService := identityapp.NewAuthService(authGateway, sessionStore, tokenService, log)

	// Handlers
	cookie := middleware.SessionCookieFrom(cfg.Session)
	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService, cookie),
		Product:   handler.NewProductHandler(productService),
		Category:  handler.NewCategoryHandler(categoryService),
		Order:     handler.NewOrderHandler(orderService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		System:    handler.NewSystemHandler(cfg.App.Name, version, checks),
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Open the server span
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests
	// 5. Metrics - Count requests per route
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	// 9. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.MetricsEnabled {
		engine.Use(middleware.HTTPMetrics(metrics))
	}
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig(cfg.IsProduction())))
	engine.Use(middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	stopCleanup := make(chan struct{})
	defer close(stopCleanup)

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go limiter.RunCleanup(stopCleanup)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	guards := router.Guards{
		Session: middleware.SessionAuth(middleware.SessionAuthConfig{
			Tokens: tokenService,
			Store:  sessionStore,
			Cookie: cookie,
			Logger: log,
		}),
		Enrich: middleware.SpanEnricher(),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		go authLimiter.RunCleanup(stopCleanup)
		guards.AuthLimit = middleware.RateLimit(authLimiter)
	}

	// Endpoints outside API versioning
	engine.GET("/health", handlers.System.Health)
	if cfg.Telemetry.MetricsEnabled {
		engine.GET(cfg.Telemetry.MetricsPath, gin.WrapH(metrics.Handler()))
	}

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(router.Groups(handlers, guards)...).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newSessionStore opens the configured session store. A Redis store is also
// returned as a health check.
func newSessionStore(cfg *config.Config, log *zap.Logger) (identity.SessionStore, map[string]handler.Pinger, func()) {
	if cfg.Session.Store != "redis" {
		log.Info("Using in-memory session store")
		return auth.NewInMemorySessionStore(), nil, func() {}
	}

	store, err := auth.NewRedisSessionStore(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
	}
	log.Info("Using Redis session store", zap.String("addr", cfg.Redis.Addr()))

	closeStore := func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing Redis", zap.Error(err))
		}
	}
	return store, map[string]handler.Pinger{"redis": store}, closeStore
}
