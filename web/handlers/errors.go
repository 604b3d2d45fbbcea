package handlers

import (
	"net/http"

	apperrors "github.com/AnubhawM/roi-calculator/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondWithError logs the technical error and returns a user-friendly message
func respondWithError(c *gin.Context, statusCode int, technicalError error, userMessage string, logger *zap.Logger, fields ...zap.Field) {
	// Log technical error with context
	if logger != nil {
		fields = append(fields, zap.Error(technicalError))
		logger.Error("Request failed", fields...)
	}

	// Return user-friendly message
	c.JSON(statusCode, gin.H{"error": userMessage})
}

// respondWithClientError returns a client error (no logging needed for validation errors)
func respondWithClientError(c *gin.Context, statusCode int, userMessage string) {
	c.JSON(statusCode, gin.H{"error": userMessage})
}

// respondServiceError maps a service-layer error onto the right HTTP status.
// Validation problems are the caller's fault; upstream trouble surfaces as a
// bad gateway so clients can tell the two apart.
func respondServiceError(c *gin.Context, err error, logger *zap.Logger, fields ...zap.Field) {
	switch {
	case apperrors.IsInvalidInput(err):
		respondWithClientError(c, http.StatusBadRequest, err.Error())
	case apperrors.IsUpstreamUnavailable(err):
		respondWithError(c, http.StatusBadGateway, err,
			"The AI service is currently unavailable. Please try again.", logger, fields...)
	case apperrors.IsMalformedResponse(err):
		respondWithError(c, http.StatusBadGateway, err,
			"The AI service returned an unexpected response. Please try again.", logger, fields...)
	default:
		respondWithError(c, http.StatusInternalServerError, err,
			"Failed to process request", logger, fields...)
	}
}
