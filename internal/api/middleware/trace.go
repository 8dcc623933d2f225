package middleware

import (
	"Shutter/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

const traceHeader = "X-Trace-ID"

// TraceMiddleware 沿用客户端传入的 trace id，没有则生成
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := logger.WithTraceID(c.Request.Context(), c.GetHeader(traceHeader))
		traceID := logger.TraceID(ctx)

		c.Set(logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(traceHeader, traceID)
		c.Next()
	}
}
