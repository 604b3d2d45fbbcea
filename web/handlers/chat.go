package handlers

import (
	"net/http"

	"github.com/AnubhawM/roi-calculator/web/services"
	"github.com/AnubhawM/roi-calculator/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chat   *services.ChatService
	logger *zap.Logger
}

func NewChatHandler(chat *services.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger,
	}
}

// Ask answers a follow-up question about the current calculation. The
// response always carries the session id the conversation continues under.
func (h *ChatHandler) Ask(c *gin.Context) {
	var req types.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.chat.Ask(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, h.logger,
			zap.String("session_id", req.SessionID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":     result.Answer,
		"rendered":   result.Rendered,
		"session_id": result.SessionID,
	})
}
