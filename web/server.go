package web

import (
	"context"
	"net/http"
	"time"

	"github.com/AnubhawM/roi-calculator/config"
	"github.com/AnubhawM/roi-calculator/llmclient"
	"github.com/AnubhawM/roi-calculator/web/format"
	"github.com/AnubhawM/roi-calculator/web/handlers"
	"github.com/AnubhawM/roi-calculator/web/middleware"
	"github.com/AnubhawM/roi-calculator/web/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router  *gin.Engine
	limiter *middleware.ClientRateLimiter
	logger  *zap.Logger
	config  *config.Config
}

func NewServer(llm *llmclient.Client, logger *zap.Logger, cfg *config.Config) (*Server, error) {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		// Add logger to context
		c.Set("logger", logger)
		c.Next()
	})

	// The calculator frontend runs on its own origin during development
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	limiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		MessagesPerMinute: cfg.RateLimitMessagesMin,
		FilesPerHour:      cfg.RateLimitFilesHour,
		BurstSize:         cfg.RateLimitBurstSize,
		CleanupInterval:   10 * time.Minute,
	}, logger)

	server := &Server{
		router:  router,
		limiter: limiter,
		logger:  logger,
		config:  cfg,
	}

	if err := server.setupRoutes(llm); err != nil {
		return nil, err
	}
	return server, nil
}

func (s *Server) setupRoutes(llm *llmclient.Client) error {
	formatter := format.NewDefaultCurrencyFormatter()

	sessions, err := services.NewSessionService(s.config.SessionCacheSize, s.logger)
	if err != nil {
		return err
	}

	roiService := services.NewROIService(llm, formatter, s.logger)
	chatService := services.NewChatService(llm, sessions, formatter, s.logger)
	docService := services.NewDocumentService(s.config.UploadDir, s.logger)

	healthHandler := handlers.NewHealthHandler(llm, s.logger)
	roiHandler := handlers.NewROIHandler(roiService, s.logger)
	chatHandler := handlers.NewChatHandler(chatService, s.logger)
	uploadHandler := handlers.NewUploadHandler(docService, s.config.MaxUploadSizeMB, s.logger)

	messageLimit := middleware.RateLimitMiddleware(s.limiter, middleware.LimitMessage)
	fileLimit := middleware.RateLimitMiddleware(s.limiter, middleware.LimitFile)

	s.router.GET("/", healthHandler.Health)
	s.router.POST("/calculate_roi", messageLimit, roiHandler.CalculateROI)
	s.router.POST("/generate", messageLimit, roiHandler.Generate)
	s.router.POST("/ask", messageLimit, chatHandler.Ask)
	s.router.POST("/upload_documents", fileLimit, uploadHandler.UploadDocuments)
	return nil
}

func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	s.limiter.Stop()
	s.logger.Info("Shutting down web server")
	return srv.Shutdown(context.Background())
}
