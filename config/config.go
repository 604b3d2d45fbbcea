package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the application's configuration
type Config struct {
	AzureOpenAIEndpoint   string        `mapstructure:"AZURE_OPENAI_ENDPOINT"`
	AzureOpenAIAPIKey     string        `mapstructure:"AZURE_OPENAI_API_KEY"`
	AzureOpenAIAPIVersion string        `mapstructure:"AZURE_OPENAI_API_VERSION"`
	AzureOpenAIDeployment string        `mapstructure:"AZURE_OPENAI_DEPLOYMENT_NAME"`
	WebPort               int           `mapstructure:"WEB_PORT"`
	LogLevel              string        `mapstructure:"LOG_LEVEL"`
	FrontendOrigin        string        `mapstructure:"FRONTEND_ORIGIN"`
	MaxRetries            int           `mapstructure:"MAX_RETRIES"`
	RetryDelaySeconds     time.Duration `mapstructure:"RETRY_DELAY_SECONDS"`
	LLMRequestTimeout     time.Duration `mapstructure:"LLM_REQUEST_TIMEOUT"`
	MaxCompletionTokens   int           `mapstructure:"MAX_COMPLETION_TOKENS"`
	Temperature           float64       `mapstructure:"TEMPERATURE"`
	UploadDir             string        `mapstructure:"UPLOAD_DIR"`
	MaxUploadSizeMB       int64         `mapstructure:"MAX_UPLOAD_SIZE_MB"`
	UploadRetention       time.Duration `mapstructure:"UPLOAD_RETENTION_HOURS"`
	CleanupInterval       time.Duration `mapstructure:"CLEANUP_INTERVAL_MINUTES"`
	SessionCacheSize      int           `mapstructure:"SESSION_CACHE_SIZE"`
	RateLimitMessagesMin  int           `mapstructure:"RATE_LIMIT_MESSAGES_PER_MIN"`
	RateLimitFilesHour    int           `mapstructure:"RATE_LIMIT_FILES_PER_HOUR"`
	RateLimitBurstSize    int           `mapstructure:"RATE_LIMIT_BURST_SIZE"`
}

func Load(logger *zap.Logger) *Config {
	var config Config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")        // For running locally
	viper.AddConfigPath("./config") // Common config folder
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("AZURE_OPENAI_ENDPOINT", "")
	viper.SetDefault("AZURE_OPENAI_API_KEY", "")
	viper.SetDefault("AZURE_OPENAI_API_VERSION", "2024-02-01")
	viper.SetDefault("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4o")
	viper.SetDefault("WEB_PORT", 5000)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("FRONTEND_ORIGIN", "http://localhost:5173")
	viper.SetDefault("MAX_RETRIES", 3)
	viper.SetDefault("RETRY_DELAY_SECONDS", 2)
	viper.SetDefault("LLM_REQUEST_TIMEOUT", 60)
	viper.SetDefault("MAX_COMPLETION_TOKENS", 1000)
	viper.SetDefault("TEMPERATURE", 0.7)
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("MAX_UPLOAD_SIZE_MB", 16)
	viper.SetDefault("UPLOAD_RETENTION_HOURS", 24)
	viper.SetDefault("CLEANUP_INTERVAL_MINUTES", 60)
	viper.SetDefault("SESSION_CACHE_SIZE", 512)
	viper.SetDefault("RATE_LIMIT_MESSAGES_PER_MIN", 20)
	viper.SetDefault("RATE_LIMIT_FILES_PER_HOUR", 10)
	viper.SetDefault("RATE_LIMIT_BURST_SIZE", 5)

	if err := viper.ReadInConfig(); err != nil {
		if logger != nil {
			logger.Warn("Could not read config file, using defaults/env vars", zap.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		// Config unmarshaling is critical - fail fast during bootstrap
		if logger != nil {
			logger.Fatal("Unable to decode config into struct", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "FATAL: Unable to decode config into struct: %v\n", err)
			os.Exit(1)
		}
	}

	config.AzureOpenAIEndpoint = strings.TrimRight(strings.TrimSpace(config.AzureOpenAIEndpoint), "/")
	config.FrontendOrigin = strings.TrimSpace(config.FrontendOrigin)

	// Convert plain numbers to proper time.Duration
	config.RetryDelaySeconds = config.RetryDelaySeconds * time.Second
	config.LLMRequestTimeout = config.LLMRequestTimeout * time.Second
	config.UploadRetention = config.UploadRetention * time.Hour
	config.CleanupInterval = config.CleanupInterval * time.Minute

	return &config
}
