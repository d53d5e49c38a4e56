package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/unicode/norm"

	"book-scanner/backend/internal/apierr"
)

type SendMessageRequest struct {
	Message      string `json:"message" binding:"required"`
	SystemPrompt string `json:"systemPrompt"`
}

// HandleSendMessage relays a free-form chat message to the model.
func (h *Handler) HandleSendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierr.Invalid("message is required"))
		return
	}

	// Normalize Unicode to NFC so lookalike characters compare cleanly
	req.Message = norm.NFC.String(req.Message)

	out, err := h.gateway.ChatCompletion(c.Request.Context(), req.Message, req.SystemPrompt)
	if err != nil {
		log.Printf("[ERROR] Chat completion failed: %v", err)
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"message": out})
}
