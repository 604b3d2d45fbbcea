package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AnubhawM/roi-calculator/config"
	"github.com/AnubhawM/roi-calculator/llmclient"
	"github.com/AnubhawM/roi-calculator/web"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// Load .env before viper reads the environment; missing file is fine
	_ = godotenv.Load()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config (which includes log level setting)
	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level
	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	if cfg.AzureOpenAIAPIKey == "" || cfg.AzureOpenAIEndpoint == "" {
		logger.Fatal("AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY must be set")
	}

	llm := llmclient.New(cfg, logger)

	// Initialize web server
	webServer, err := web.NewServer(llm, logger, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize web server", zap.Error(err))
	}

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start background cleanup of stale upload directories
	cleanupService := web.NewCleanupService(cfg.UploadDir, logger)
	go web.StartUploadCleanup(ctx, cfg, cleanupService, logger)

	// Start web server
	port := fmt.Sprintf(":%d", cfg.WebPort)
	logger.Info("Starting ROI calculator web server", zap.String("port", port))
	if err := webServer.Start(ctx, port); err != nil {
		logger.Error("Web server error", zap.Error(err))
		os.Exit(1)
	}
}
