package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lifedrop/lifedrop/internal/observability/obscontext"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// GinMiddleware assigns a request id and logs one line per request.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := ensureRequestID(c)
		ctx := obscontext.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		logRequest(base, c, requestID, time.Since(start))
	}
}

func ensureRequestID(c *gin.Context) string {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Writer.Header().Set(requestIDHeader, requestID)
	return requestID
}

func logRequest(base *zap.Logger, c *gin.Context, requestID string, duration time.Duration) {
	status := c.Writer.Status()
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}

	log := WithContext(c.Request.Context(), base).With(
		zap.String("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", duration),
		zap.String("client_ip", c.ClientIP()),
	)

	if len(c.Errors) > 0 {
		log = log.With(zap.String("error", c.Errors.Last().Error()))
	}

	switch {
	case status >= 500:
		log.Error("http request")
	case status >= 400:
		log.Warn("http request")
	case path == "/metrics" || path == "/health":
		log.Debug("http request")
	default:
		log.Info("http request")
	}
}
