// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/security"
	"github.com/gin-gonic/gin"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "requestId"

// RequestLogger tags each request with an id and logs its outcome on the
// http channel.
func RequestLogger(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = security.GenerateULID()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		marker := perfTracker.StartOperation("http_request", c.FullPath())
		marker.AddMetadata("method", c.Request.Method)
		marker.AddMetadata("requestId", requestID)
		defer marker.Complete()

		c.Next()

		status := c.Writer.Status()
		marker.AddMetadata("status", status)
		if status >= http.StatusInternalServerError {
			marker.SetError(fmt.Errorf("request failed with status %d", status))
		} else {
			marker.SetSuccess(true)
		}

		attrs := []any{
			"requestId", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.HTTP().Error("Request failed", attrs...)
		case status >= http.StatusBadRequest:
			logger.HTTP().Warn("Request rejected", attrs...)
		default:
			logger.HTTP().Debug("Request completed", attrs...)
		}
	}
}

// GetRequestID returns the id RequestLogger assigned to c.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
