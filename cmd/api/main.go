package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finboard/finboard-backend/internal/cache"
	"github.com/finboard/finboard-backend/internal/config"
	"github.com/finboard/finboard-backend/internal/handler"
	"github.com/finboard/finboard-backend/internal/loancalc"
	"github.com/finboard/finboard-backend/internal/middleware"
	"github.com/finboard/finboard-backend/internal/repository/postgres"
	"github.com/finboard/finboard-backend/internal/repository/storage"
	"github.com/finboard/finboard-backend/internal/service"
	"github.com/finboard/finboard-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Finboard API
// @version 1.0
// @description Loan amortization, prepayment and pre-closure analytics for the finboard dashboard.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Auth0 access token as 'Bearer <token>'
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Schema first, then the pool
	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	workspaceRepo := postgres.NewWorkspaceRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)

	// Loan summary cache
	cacheManager := cache.NewManager()
	summaries := newSummaryCache(ctx, cfg.Cache, cacheManager)
	cacheManager.StartCleanup(time.Minute)

	// Live event hub
	hub := websocket.NewHub()
	events := websocket.NewTracedPublisher(hub, hub)

	// Initialize services
	workspaceService := service.NewWorkspaceService(workspaceRepo)
	loanService := service.NewLoanService(loanRepo, transactionRepo, summaries)
	loanService.SetEventPublisher(events)
	transactionService := service.NewTransactionService(transactionRepo, loanRepo)
	transactionService.SetEventPublisher(events)

	var reportStorage storage.ReportRepository
	if cfg.S3.Enabled() {
		s3Repo, err := storage.NewS3ReportRepository(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize report storage")
		}
		reportStorage = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Schedule exports enabled")
	} else {
		log.Warn().Msg("S3_BUCKET not set, schedule exports disabled")
	}
	reportService := service.NewReportService(reportStorage, loanService)

	// Auth and rate limiting
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, workspaceService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)

	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, workspaceRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create websocket token validator")
	}

	// Payment due reminders
	reminderWorker := service.NewReminderWorker(
		workspaceRepo, loanRepo, transactionRepo, events,
		log.Logger,
		service.ReminderWorkerConfig{Schedule: cfg.Reminder.Schedule, DaysAhead: cfg.Reminder.DaysAhead},
	)
	if err := reminderWorker.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start reminder worker")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handler.Handlers{
		Loan:        handler.NewLoanHandler(loanService, reportService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Workspace:   handler.NewWorkspaceHandler(workspaceService),
		WebSocket:   handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins),
	})

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	reminderWorker.Stop()
	hub.CloseAll()
	rateLimiter.Stop()
	cacheManager.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newSummaryCache returns a Redis backed cache when REDIS_URL is set and an
// in-process LRU otherwise. An unreachable Redis falls back to the LRU.
func newSummaryCache(ctx context.Context, cfg config.CacheConfig, manager *cache.Manager) cache.Cache[*loancalc.LoanSummary] {
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err == nil {
			log.Info().Msg("Using Redis for loan summaries")
			return cache.NewRedisCache[*loancalc.LoanSummary](client, "finboard:summary:", cfg.TTL)
		}
		log.Warn().Err(err).Msg("Redis unavailable, using in-process cache")
	}

	lru := cache.NewLRUCache[*loancalc.LoanSummary](cfg.Size, cfg.TTL)
	manager.Register(lru)
	return lru
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Int32("workspace_id", middleware.GetWorkspaceID(c)).
				Msg("request")

			return nil
		}
	}
}
