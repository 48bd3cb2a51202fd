package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chihoangvnn/postpreview/internal/auth"
	"github.com/chihoangvnn/postpreview/internal/logutil"
	"github.com/chihoangvnn/postpreview/internal/metrics"
)

const (
	headerRequestID = "X-Request-ID"
	headerCache     = "X-Cache"

	contextRequestID = "request_id"
)

// requestID reuses the caller's X-Request-ID or generates one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		keyvals := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString(contextRequestID),
		}
		if user := c.GetString(auth.ContextUserID); user != "" {
			keyvals = append(keyvals, "user_id", user)
		}
		if len(c.Errors) > 0 {
			keyvals = append(keyvals, "errors", c.Errors.String())
			logutil.Warn("request", keyvals...)
			return
		}
		logutil.Debug("request", keyvals...)
	}
}

// observeRequests labels by route pattern, not raw path, to bound cardinality.
func observeRequests(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start).Seconds())
	}
}
