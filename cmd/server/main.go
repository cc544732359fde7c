package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yourorg/rentledger/internal/events"
	"github.com/yourorg/rentledger/internal/handler"
	"github.com/yourorg/rentledger/internal/infrastructure/redis"
	"github.com/yourorg/rentledger/internal/observability/metrics"
	"github.com/yourorg/rentledger/internal/observability/tracing"
	"github.com/yourorg/rentledger/internal/reliability/retry"
	"github.com/yourorg/rentledger/internal/repository"
	"github.com/yourorg/rentledger/internal/security/audit"
	"github.com/yourorg/rentledger/internal/security/auth"
	"github.com/yourorg/rentledger/internal/security/middleware"
	"github.com/yourorg/rentledger/internal/security/ratelimit"
	"github.com/yourorg/rentledger/internal/service"
	"github.com/yourorg/rentledger/internal/worker"
	"github.com/yourorg/rentledger/pkg/config"
	"github.com/yourorg/rentledger/pkg/database"
	"github.com/yourorg/rentledger/pkg/logging"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logging.New(cfg.LogLevel, cfg.Environment)
	log.Info("starting rentledger server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Tracing (no-op unless OTEL_EXPORTER_OTLP_ENDPOINT is set)
	shutdownTracing, err := tracing.Init(ctx, log, "rentledger", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	// 4. Open the store, retrying while it comes up
	dbConfig := &database.Config{
		Driver:   cfg.DBDriver,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		Path:     cfg.DBPath,
	}
	db, err := retry.Do(ctx, retry.DefaultConfig(), log, "database connect",
		func(ctx context.Context) (*sql.DB, error) {
			return database.Open(ctx, dbConfig, log)
		})
	if err != nil {
		log.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	// 5. Optional redis report cache
	var redisClient *redis.Client
	var reportCache service.ReportCache = service.NewMemoryReportCache()
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		reportCache = service.NewRedisReportCache(redisClient, log)
	}

	// 6. Repositories
	ownerRepo := repository.NewOwnerRepository(db, log)
	tenantRepo := repository.NewTenantRepository(db, log)
	propertyRepo := repository.NewPropertyRepository(db, log)
	leaseRepo := repository.NewLeaseRepository(db, log)
	paymentRepo := repository.NewPaymentRepository(db, log)
	userRepo := repository.NewUserRepository(db, log)

	// 7. Services
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	authService := service.NewAuthService(userRepo, tokenManager, log)
	rentalService := service.NewRentalService(ownerRepo, tenantRepo, propertyRepo, leaseRepo, paymentRepo, log)
	reportService := service.NewReportService(leaseRepo, paymentRepo, reportCache,
		time.Duration(cfg.ReportCacheTTLMinutes)*time.Minute, log)

	// 8. Security components and event feed
	rateLimiter := ratelimit.NewLimiter(100, time.Minute)
	auditLogger := audit.NewLogger(log)
	hub := events.NewHub()

	// 9. Handlers
	authHandler := handler.NewAuthHandler(authService, auditLogger, log)
	ownerHandler := handler.NewOwnerHandler(rentalService, hub, log)
	tenantHandler := handler.NewTenantHandler(rentalService, hub, log)
	propertyHandler := handler.NewPropertyHandler(rentalService, hub, log)
	leaseHandler := handler.NewLeaseHandler(rentalService, hub, log)
	paymentHandler := handler.NewPaymentHandler(rentalService, hub, log)
	reportHandler := handler.NewReportHandler(reportService, auditLogger, log)
	eventsHandler := handler.NewEventsHandler(hub, tokenManager, cfg.CORSAllowedOrigins, log)
	healthHandler := handler.NewHealthHandler(db, redisClient, log)

	// 10. Routes
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	mux.HandleFunc("GET /api/owners", ownerHandler.List)
	mux.HandleFunc("POST /api/owners", ownerHandler.Create)
	mux.HandleFunc("GET /api/owners/{id}", ownerHandler.Get)
	mux.HandleFunc("PUT /api/owners/{id}", ownerHandler.Update)
	mux.HandleFunc("DELETE /api/owners/{id}", ownerHandler.Delete)

	mux.HandleFunc("GET /api/tenants", tenantHandler.List)
	mux.HandleFunc("POST /api/tenants", tenantHandler.Create)
	mux.HandleFunc("GET /api/tenants/{id}", tenantHandler.Get)
	mux.HandleFunc("PUT /api/tenants/{id}", tenantHandler.Update)
	mux.HandleFunc("DELETE /api/tenants/{id}", tenantHandler.Delete)

	mux.HandleFunc("GET /api/properties", propertyHandler.List)
	mux.HandleFunc("GET /api/properties/search", propertyHandler.Search)
	mux.HandleFunc("POST /api/properties", propertyHandler.Create)
	mux.HandleFunc("GET /api/properties/{id}", propertyHandler.Get)
	mux.HandleFunc("PUT /api/properties/{id}", propertyHandler.Update)
	mux.HandleFunc("DELETE /api/properties/{id}", propertyHandler.Delete)

	mux.HandleFunc("GET /api/leases", leaseHandler.List)
	mux.HandleFunc("POST /api/leases", leaseHandler.Create)
	mux.HandleFunc("GET /api/leases/{id}", leaseHandler.Get)
	mux.HandleFunc("PUT /api/leases/{id}", leaseHandler.Update)
	mux.HandleFunc("DELETE /api/leases/{id}", leaseHandler.Delete)

	mux.HandleFunc("GET /api/payments", paymentHandler.List)
	mux.HandleFunc("POST /api/payments", paymentHandler.Create)
	mux.HandleFunc("GET /api/payments/{id}", paymentHandler.Get)
	mux.HandleFunc("PUT /api/payments/{id}", paymentHandler.Update)
	mux.HandleFunc("DELETE /api/payments/{id}", paymentHandler.Delete)

	mux.HandleFunc("GET /api/reports/monthly", reportHandler.MonthlyPayments)
	mux.HandleFunc("GET /api/reports/unpaid", reportHandler.UnpaidLeases)

	mux.Handle("GET /ws/events", eventsHandler)

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)

	// CORS wrapper honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Middleware chain, outermost first: request ID -> metrics ->
	// tracing -> JWT -> rate limit -> content type -> audit. The JWT
	// layer runs before rate limiting and auditing so both see the
	// resolved actor.
	rootHandler := withRequestID(
		metrics.HTTPMetricsMiddleware(
			otelhttp.NewHandler(
				middleware.JWTMiddleware(tokenManager, log)(
					middleware.RateLimitMiddleware(rateLimiter, log)(
						middleware.ValidateJSONContentType(log)(
							middleware.AuditMiddleware(auditLogger)(handlerWithCORS),
						),
					),
				),
				"rentledger",
			),
		),
		log,
	)

	// 11. Arrears worker
	arrearsWorker := worker.NewArrearsWorker(leaseRepo, log,
		time.Duration(cfg.ArrearsIntervalMinutes)*time.Minute)
	go arrearsWorker.Start(ctx)

	// 12. HTTP server with graceful shutdown
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("db_driver", cfg.DBDriver),
		slog.Bool("report_cache_redis", redisClient != nil),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // stop the arrears worker
	rateLimiter.Stop()
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
