package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger records failed requests after the handler chain completes.
// Successful requests stay out of the log; the metrics middleware covers
// their volume and latency.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		if status < 400 {
			return
		}

		attrs := []any{
			slog.String("request_id", GetRequestID(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
		}

		if status >= 500 {
			attrs = append(attrs, slog.Duration("latency", time.Since(start)))
			logger.Error("http_request_error", attrs...)
			return
		}

		logger.Warn("http_request_warning", attrs...)
	}
}
