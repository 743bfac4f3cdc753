package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knappert/spendwise/spendwise-backend/internal/config"
	"github.com/knappert/spendwise/spendwise-backend/internal/handler"
	"github.com/knappert/spendwise/spendwise-backend/internal/middleware"
	"github.com/knappert/spendwise/spendwise-backend/internal/repository/postgres"
	"github.com/knappert/spendwise/spendwise-backend/internal/repository/storage"
	"github.com/knappert/spendwise/spendwise-backend/internal/service"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

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

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	categoryRepo := postgres.NewCategoryRepository(pool)
	bankAccountRepo := postgres.NewBankAccountRepository(pool)
	tagRepo := postgres.NewTagRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	uploadRepo := postgres.NewUploadRepository(pool)
	maintenanceRepo := postgres.NewMaintenanceRepository(pool)

	// Upload archiving is optional; without a bucket the raw documents are
	// simply not retained.
	var archiveRepo storage.ArchiveRepository
	if cfg.ArchiveEnabled() {
		s3Repo, err := storage.NewS3ArchiveRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize upload archive")
		}
		archiveRepo = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Upload archive enabled")
	}

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo)
	bankAccountService := service.NewBankAccountService(bankAccountRepo)
	tagService := service.NewTagService(tagRepo)
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo, bankAccountRepo)
	uploadService := service.NewUploadService(uploadRepo, archiveRepo)
	dashboardService := service.NewDashboardService(transactionRepo)
	maintenanceService := service.NewMaintenanceService(maintenanceRepo)

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	// Per-user rate limiter for the bulk endpoints
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Initialize handlers
	categoryHandler := handler.NewCategoryHandler(categoryService)
	bankAccountHandler := handler.NewBankAccountHandler(bankAccountService)
	tagHandler := handler.NewTagHandler(tagService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceService)

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

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, categoryHandler, bankAccountHandler, tagHandler, transactionHandler, uploadHandler, dashboardHandler, maintenanceHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
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

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
