package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	labelingapp "github.com/marketops/backend/internal/application/labeling"
	"github.com/marketops/backend/internal/infrastructure/config"
	infralabel "github.com/marketops/backend/internal/infrastructure/labeling"
	"github.com/marketops/backend/internal/infrastructure/logger"
	"github.com/marketops/backend/internal/infrastructure/persistence"
	"github.com/marketops/backend/internal/infrastructure/scheduler"
	"github.com/marketops/backend/internal/infrastructure/storage"
	"github.com/marketops/backend/internal/infrastructure/textpipe"
	"github.com/marketops/backend/internal/interfaces/http/handler"
	"github.com/marketops/backend/internal/interfaces/http/middleware"
	"github.com/marketops/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			MarketOps Backend API
//	@version		1.0
//	@description	Marketplace operations backend with the shipping-label template designer and rendering pipeline

//	@contact.name	API Support
//	@contact.email	support@marketops.example.com

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting MarketOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	templateRepo := persistence.NewGormLabelTemplateRepository(db.DB)
	settingsRepo := persistence.NewGormLabelSettingsRepository(db.DB)
	jobRepo := persistence.NewGormLabelJobRepository(db.DB)
	orderReader := persistence.NewGormOrderReader(db.DB)

	// Text pipeline and rendering surfaces share one formatter so preview and
	// PDF produce identical text for the same template and order
	formatter := textpipe.NewFormatter(cfg.Locale.Language, cfg.Locale.Currency)
	previewRenderer := infralabel.NewPreviewRenderer(formatter)
	pdfRenderer := infralabel.NewPDFRenderer(&infralabel.PDFRendererConfig{
		Timeout:       cfg.Render.Timeout,
		MaxConcurrent: cfg.Render.MaxConcurrent,
		FontDir:       cfg.Render.FontDir,
		Logger:        log,
	}, formatter)

	// Artifact storage, filesystem by default or any S3-compatible backend
	var artifactStorage infralabel.ArtifactStorage
	switch cfg.Storage.Driver {
	case "s3":
		s3Storage, err := storage.NewS3ArtifactStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize S3 artifact storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(context.Background()); err != nil {
			log.Fatal("Failed to ensure artifact bucket", zap.Error(err))
		}
		artifactStorage = s3Storage
	default:
		fsStorage, err := infralabel.NewFileSystemStorage(&infralabel.FileSystemStorageConfig{
			BasePath:      cfg.Storage.BasePath,
			BaseURL:       cfg.Storage.BaseURL,
			RetentionDays: cfg.Storage.RetentionDays,
			Logger:        log,
		})
		if err != nil {
			log.Fatal("Failed to initialize filesystem artifact storage", zap.Error(err))
		}
		artifactStorage = fsStorage
	}
	log.Info("Artifact storage initialized", zap.String("driver", cfg.Storage.Driver))

	sender := infralabel.SenderProfile{
		Name:         cfg.Sender.Name,
		Phone:        cfg.Sender.Phone,
		AddressLine1: cfg.Sender.AddressLine1,
		AddressLine2: cfg.Sender.AddressLine2,
		City:         cfg.Sender.City,
		PostalCode:   cfg.Sender.PostalCode,
		Country:      cfg.Sender.Country,
		TaxNumber:    cfg.Sender.TaxNumber,
	}

	// Initialize application service
	labelService := labelingapp.NewService(
		templateRepo,
		settingsRepo,
		jobRepo,
		orderReader,
		previewRenderer,
		pdfRenderer,
		artifactStorage,
		sender,
		log,
	)

	// Start the artifact retention sweep
	retention := scheduler.NewRetentionScheduler(scheduler.RetentionConfig{
		RetentionDays: cfg.Storage.RetentionDays,
		SweepInterval: 12 * time.Hour,
		SweepTimeout:  10 * time.Minute,
	}, artifactStorage, log)
	if err := retention.Start(context.Background()); err != nil {
		log.Fatal("Failed to start retention scheduler", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := retention.Stop(stopCtx); err != nil {
			log.Error("Error stopping retention scheduler", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	labelHandler := handler.NewLabelHandler(labelService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Serve generated artifacts directly when they live on the local
	// filesystem and the download prefix is a relative path
	if cfg.Storage.Driver == "filesystem" && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		engine.StaticFS(cfg.Storage.BaseURL, gin.Dir(cfg.Storage.BasePath, false))
	}

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.LabelRoutes(labelHandler)).
		Register(handler.SystemRoutes(systemHandler))
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
