package handlers

import (
	"net/http"

	"github.com/AnubhawM/roi-calculator/web/services"
	"github.com/AnubhawM/roi-calculator/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ROIHandler struct {
	roi    *services.ROIService
	logger *zap.Logger
}

func NewROIHandler(roi *services.ROIService, logger *zap.Logger) *ROIHandler {
	return &ROIHandler{
		roi:    roi,
		logger: logger,
	}
}

// CalculateROI runs a full analysis from the structured calculator inputs.
func (h *ROIHandler) CalculateROI(c *gin.Context) {
	var req types.ROIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.roi.Calculate(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, h.logger,
			zap.String("budget", req.Budget),
			zap.String("duration", req.Duration))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":   result.Response,
		"rendered":   result.Rendered,
		"chart_data": result.Chart,
	})
}

// Generate accepts the legacy free-form prompt body. Prompts in the old
// "Calculate ROI with Budget: ..." shape get the structured treatment.
func (h *ROIHandler) Generate(c *gin.Context) {
	var req types.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.roi.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		respondServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":   result.Response,
		"rendered":   result.Rendered,
		"chart_data": result.Chart,
	})
}
