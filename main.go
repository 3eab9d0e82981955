package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ra7ch/LeetSol/backend/config"
	"github.com/Ra7ch/LeetSol/backend/handler"
	"github.com/Ra7ch/LeetSol/backend/middleware"
	"github.com/Ra7ch/LeetSol/backend/pkg/logger"
	"github.com/Ra7ch/LeetSol/backend/service"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize services
	stagingSvc := service.NewStagingService(&cfg.Staging)
	if err := stagingSvc.EnsureDir(); err != nil {
		slog.Error("failed to prepare staging directory", "error", err)
		os.Exit(1)
	}

	engineSvc := service.NewEngineService(&cfg.Engine)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := service.NewReportStore(ctx, &cfg.Mongo)
	cancel()
	if err != nil {
		slog.Error("failed to connect to report store", "error", err)
		os.Exit(1)
	}

	var archiveSvc handler.Archiver
	if cfg.Archive.Enabled {
		svc, err := service.NewArchiveService(&cfg.Archive)
		if err != nil {
			slog.Error("failed to initialize archive service", "error", err)
			os.Exit(1)
		}
		if err := svc.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure archive bucket", "error", err)
			os.Exit(1)
		}
		archiveSvc = svc
	}

	// Initialize handlers
	auditHandler := handler.NewAuditHandler(stagingSvc, engineSvc, store, archiveSvc, &cfg.Staging)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	router.MaxMultipartMemory = cfg.Staging.MaxUploadBytes

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware())                       // CORS for the frontend
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Audit routes
	audit := router.Group("/audit")
	{
		audit.POST("/upload", auditHandler.Upload)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := store.Close(shutdownCtx); err != nil {
		slog.Error("failed to disconnect report store", "error", err)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers for the marketing frontend
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
