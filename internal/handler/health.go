package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HandleHealth reports service liveness plus basic runtime facts.
func (h *Handler) HandleHealth(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"status":      "ok",
		"version":     h.cfg.Version,
		"uptime":      int64(time.Since(h.startedAt).Seconds()),
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.cfg.Env,
	})
}

// HandleReadiness reports whether the service can accept traffic. The
// relay is stateless, so readiness only requires a configured upstream
// credential.
func (h *Handler) HandleReadiness(c *gin.Context) {
	if h.cfg.OpenAIAPIKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "api_key_not_configured",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
