package handlers

import (
	"errors"
	"net/http"

	"courtconnect/models"
	ai "courtconnect/services/intelligence"
	"courtconnect/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistantHandler serves the conversational endpoint.
type AssistantHandler struct {
	Service ai.AssistantService
}

func NewAssistantHandler(service ai.AssistantService) *AssistantHandler {
	return &AssistantHandler{Service: service}
}

// ChatHandler answers one message: 200 for every conversational branch, 400 for
// missing or blocked input, 500 when the remote model fails.
func (h *AssistantHandler) ChatHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		utils.JSONError(c, http.StatusBadRequest, "Message is required")
		return
	}

	caller, _ := getCaller(c)
	reply, err := h.Service.Reply(c.Request.Context(), caller, req.Message)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.ChatResponse{Reply: reply})
	case errors.Is(err, ai.ErrEmptyMessage):
		utils.JSONError(c, http.StatusBadRequest, "Message is required")
	case errors.Is(err, ai.ErrBlockedMessage):
		logger.Info("Blocked chat message", zap.String("userId", caller.ID))
		utils.JSONError(c, http.StatusBadRequest, "I can't assist with that.")
	case errors.Is(err, ai.ErrChatUnavailable):
		utils.JSONError(c, http.StatusInternalServerError, "Chat service unavailable")
	default:
		logger.Error("Chat failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Chat failed")
	}
}
