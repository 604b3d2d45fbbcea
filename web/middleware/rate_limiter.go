package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiterConfig holds configuration for rate limiting
type RateLimiterConfig struct {
	MessagesPerMinute int           // Max AI-backed calls per client per minute
	FilesPerHour      int           // Max file uploads per client per hour
	BurstSize         int           // Allow burst of N requests
	CleanupInterval   time.Duration // How often to clean up old entries
}

// Limit classes for the middleware.
const (
	LimitMessage = "message"
	LimitFile    = "file"
)

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a new token bucket
func NewTokenBucket(maxTokens float64, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow checks if a request can proceed and consumes a token if so
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()

	// Refill tokens based on elapsed time
	tb.tokens = min(tb.maxTokens, tb.tokens+(elapsed*tb.refillRate))
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// Remaining returns the number of tokens remaining
func (tb *TokenBucket) Remaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tokens := min(tb.maxTokens, tb.tokens+(elapsed*tb.refillRate))
	return int(tokens)
}

// ClientRateLimiter manages rate limits per client address. The API carries
// session ids in request bodies, so the limiter keys on the caller instead.
type ClientRateLimiter struct {
	config        RateLimiterConfig
	messageLimits map[string]*TokenBucket
	fileLimits    map[string]*TokenBucket
	mu            sync.RWMutex
	logger        *zap.Logger
	stopCleanup   chan struct{}
}

// NewClientRateLimiter creates a new client-based rate limiter
func NewClientRateLimiter(config RateLimiterConfig, logger *zap.Logger) *ClientRateLimiter {
	limiter := &ClientRateLimiter{
		config:        config,
		messageLimits: make(map[string]*TokenBucket),
		fileLimits:    make(map[string]*TokenBucket),
		logger:        logger,
		stopCleanup:   make(chan struct{}),
	}

	// Start cleanup goroutine
	go limiter.cleanupRoutine()

	return limiter
}

// cleanupRoutine periodically removes stale entries
func (crl *ClientRateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(crl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			crl.cleanup()
		case <-crl.stopCleanup:
			return
		}
	}
}

// cleanup drops all buckets once the maps grow past a sane bound; callers
// that are still active simply get a fresh bucket.
func (crl *ClientRateLimiter) cleanup() {
	crl.mu.Lock()
	defer crl.mu.Unlock()

	if len(crl.messageLimits) > 1000 {
		crl.logger.Info("Cleaning up rate limiter cache",
			zap.Int("message_limiters", len(crl.messageLimits)))
		crl.messageLimits = make(map[string]*TokenBucket)
		crl.fileLimits = make(map[string]*TokenBucket)
	}
}

// Stop stops the cleanup routine
func (crl *ClientRateLimiter) Stop() {
	close(crl.stopCleanup)
}

// AllowMessage checks if an AI-backed call can proceed for the client
func (crl *ClientRateLimiter) AllowMessage(client string) bool {
	crl.mu.Lock()
	bucket, exists := crl.messageLimits[client]
	if !exists {
		// MessagesPerMinute tokens, refilled at rate/60 per second
		refillRate := float64(crl.config.MessagesPerMinute) / 60.0
		bucket = NewTokenBucket(float64(crl.config.BurstSize), refillRate)
		crl.messageLimits[client] = bucket
	}
	crl.mu.Unlock()

	return bucket.Allow()
}

// AllowFile checks if a file upload can proceed for the client
func (crl *ClientRateLimiter) AllowFile(client string) bool {
	crl.mu.Lock()
	bucket, exists := crl.fileLimits[client]
	if !exists {
		// FilesPerHour tokens, refilled at rate/3600 per second
		refillRate := float64(crl.config.FilesPerHour) / 3600.0
		bucket = NewTokenBucket(float64(crl.config.FilesPerHour), refillRate)
		crl.fileLimits[client] = bucket
	}
	crl.mu.Unlock()

	return bucket.Allow()
}

// GetMessageLimit returns remaining message tokens for a client
func (crl *ClientRateLimiter) GetMessageLimit(client string) (remaining int, limit int) {
	crl.mu.RLock()
	bucket, exists := crl.messageLimits[client]
	crl.mu.RUnlock()

	if !exists {
		return crl.config.BurstSize, crl.config.BurstSize
	}
	return bucket.Remaining(), crl.config.BurstSize
}

// GetFileLimit returns remaining file-upload tokens for a client
func (crl *ClientRateLimiter) GetFileLimit(client string) (remaining int, limit int) {
	crl.mu.RLock()
	bucket, exists := crl.fileLimits[client]
	crl.mu.RUnlock()

	if !exists {
		return crl.config.FilesPerHour, crl.config.FilesPerHour
	}
	return bucket.Remaining(), crl.config.FilesPerHour
}

// RateLimitMiddleware creates a Gin middleware enforcing the given limit class
func RateLimitMiddleware(limiter *ClientRateLimiter, limitType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := c.ClientIP()

		var allowed bool
		var remaining, limit int

		switch limitType {
		case LimitMessage:
			allowed = limiter.AllowMessage(client)
			remaining, limit = limiter.GetMessageLimit(client)
		case LimitFile:
			allowed = limiter.AllowFile(client)
			remaining, limit = limiter.GetFileLimit(client)
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown limit type"})
			return
		}

		// Add rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			limiter.logger.Warn("Rate limit exceeded",
				zap.String("client", client),
				zap.String("limit_type", limitType),
				zap.Int("limit", limit))

			c.Header("Retry-After", "60") // Suggest retry after 60 seconds
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"limit":       limit,
				"remaining":   remaining,
				"retry_after": 60,
			})
			return
		}

		c.Next()
	}
}
