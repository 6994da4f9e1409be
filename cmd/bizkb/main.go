package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bizkb/bizkb/internal/api"
	"github.com/bizkb/bizkb/internal/config"
	"github.com/bizkb/bizkb/internal/llm"
	"github.com/bizkb/bizkb/internal/repository"
	"github.com/bizkb/bizkb/internal/service"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	segmentRepo := repository.NewSegmentRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// Initialize generation client; ingestion and chat degrade gracefully
	// when no endpoint is configured
	generator := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model,
		time.Duration(cfg.LLM.TimeoutSeconds)*time.Second)
	if !generator.Configured() {
		logger.Warn("generation service not configured, running degraded")
	}

	// Initialize services
	classifier := service.NewClassifier(generator, logger)
	ingestService := service.NewIngestService(documentRepo, segmentRepo, classifier,
		cfg.Ingest.ChunkSize, logger)
	retrieval := service.NewKeywordSearch(documentRepo)
	chatService := service.NewChatService(sessionRepo, retrieval, generator,
		cfg.Chat.SearchLimit, logger)
	statsService := service.NewStatsService(documentRepo, segmentRepo, sessionRepo)

	// Setup router
	router := api.SetupRouter(ingestService, chatService, statsService, api.RouterConfig{
		AllowOrigins: []string{"*"},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting knowledge base server", zap.String("address", cfg.Address()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
