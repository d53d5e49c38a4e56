package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"book-scanner/backend/internal/apierr"
	"book-scanner/backend/internal/middleware"
)

// respond writes payload with the timeTaken field stamped in at the
// response boundary. Individual operations never compute it themselves.
func respond(c *gin.Context, status int, payload gin.H) {
	payload["timeTaken"] = elapsedMillis(c)
	c.JSON(status, payload)
}

// respondError maps a tagged error onto its HTTP status and the teacher
// envelope {error, code}.
func respondError(c *gin.Context, err error) {
	status, msg := apierr.StatusOf(err)
	respond(c, status, gin.H{
		"error": msg,
		"code":  errorCode(err),
	})
}

// elapsedMillis reports milliseconds since the timing middleware saw the
// request, as a string.
func elapsedMillis(c *gin.Context) string {
	start := c.GetTime(middleware.StartTimeKey)
	if start.IsZero() {
		return "0"
	}
	return strconv.FormatInt(time.Since(start).Milliseconds(), 10)
}

func errorCode(err error) string {
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		return "INTERNAL_ERROR"
	}
	switch ae.Kind {
	case apierr.KindInvalid:
		return "INVALID_REQUEST"
	case apierr.KindTimeout:
		return "TIMEOUT"
	case apierr.KindNotFound:
		return "NOT_FOUND"
	case apierr.KindMalformed:
		return "MALFORMED_RESPONSE"
	default:
		return "UPSTREAM_ERROR"
	}
}
