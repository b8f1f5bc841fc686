package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"social-post-studio/internal/ai"
	"social-post-studio/internal/config"
	"social-post-studio/internal/image"
	"social-post-studio/internal/logger"
	"social-post-studio/internal/telemetry"
	"social-post-studio/middleware"
	"social-post-studio/routes"
	"social-post-studio/services"

	pgstore "social-post-studio/internal/store/postgres"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("social-post-studio", cfg.OTLPEndpoint)
		if err != nil {
			logger.Error("Failed to initialize tracer", "error", err)
			os.Exit(1)
		}
		defer shutdown()
	}

	// Connect to Postgres
	postStore, err := pgstore.New(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if !cfg.HasTextProvider() {
		logger.Warn("No text generation provider configured; /generate will return configuration errors")
	}

	httpClient := &http.Client{Timeout: 120 * time.Second}

	// Text providers, in fallback order.
	var textProviders []ai.TextProvider
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			logger.Error("Failed to create Gemini client", "error", err)
			os.Exit(1)
		}
		defer geminiClient.Close()
		textProviders = append(textProviders, ai.NewGeminiProvider(geminiClient, cfg.GeminiAPIKey, cfg.GeminiModel))
	}
	textProviders = append(textProviders, ai.NewOpenAIProvider(httpClient, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel))

	// Image providers. Storage is skipped when images are returned inline as
	// data URIs.
	var imageStorage *image.Storage
	if !cfg.ImageDataURI {
		imageStorage, err = image.NewStorage(cfg.UploadsDir, cfg.UploadsPublicPrefix)
		if err != nil {
			logger.Error("Failed to prepare uploads directory", "error", err)
			os.Exit(1)
		}
	}
	imageProviders := []image.Provider{
		image.NewHuggingFaceProvider(httpClient, cfg.HuggingFaceAPIKey, cfg.HuggingFaceModel, imageStorage),
		image.NewReplicateProvider(httpClient, cfg.ReplicateAPIToken, cfg.ReplicateVersion),
	}

	// Services
	genConfig := ai.GenerationConfig{
		Temperature:     float32(cfg.Temperature),
		MaxOutputTokens: int32(cfg.MaxOutputTokens),
	}
	linkPreviews := services.NewLinkPreviewService(httpClient)
	generator := services.NewGeneratorService(textProviders, imageProviders, linkPreviews, genConfig)
	toneAdjuster := services.NewToneAdjuster(textProviders)
	hashtagService := services.NewHashtagService(textProviders)
	promptRefiner := services.NewPromptRefiner(textProviders)
	analyzer := services.NewContentAnalyzer(textProviders)
	exporter := services.NewExportService(postStore)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	if cfg.TracingEnabled {
		router.Use(middleware.TracingMiddleware())
		router.Use(middleware.EnrichTrace())
	}

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With", "X-Request-ID"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Rate limiting is optional; without Redis the API runs unthrottled.
	if cfg.RedisURL != "" {
		rdb, err := config.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, rate limiting disabled", "error", err)
		} else {
			defer rdb.Close()
			router.Use(middleware.RateLimitMiddleware(rdb, cfg))
		}
	}

	if imageStorage != nil {
		router.Static(cfg.UploadsPublicPrefix, cfg.UploadsDir)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Setup routes
	routes.SetupGenerateRoutes(router, generator, toneAdjuster, hashtagService, promptRefiner, analyzer, postStore)
	routes.SetupPostRoutes(router, postStore)
	routes.SetupExportRoutes(router, exporter)

	// Hourly sweep of generated images no saved post references anymore.
	var janitor *services.UploadsJanitor
	if imageStorage != nil {
		janitor = services.NewUploadsJanitor(postStore, cfg.UploadsDir, cfg.UploadsPublicPrefix, time.Duration(cfg.ImageRetentionHours)*time.Hour)
		if err := janitor.Start(); err != nil {
			logger.Warn("Failed to start uploads janitor", "error", err)
			janitor = nil
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	if janitor != nil {
		janitor.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("Server exited")
}
