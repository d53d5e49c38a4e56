package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey is the context key holding the per-request ID.
	RequestIDKey = "requestID"
	// StartTimeKey is the context key holding the request start time, used
	// by the response helper to compute the timeTaken field.
	StartTimeKey = "requestStart"
)

// RequestID tags every request with a UUID (echoed in X-Request-ID) and
// records the start time for response timing.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set(RequestIDKey, id)
		c.Set(StartTimeKey, time.Now())
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
