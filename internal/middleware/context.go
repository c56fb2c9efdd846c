package middleware

import (
	"context"
	"time"

	"github.com/Payphone-Digital/jury/internal/constants"
	ctxutil "github.com/Payphone-Digital/jury/pkg/context"
	"github.com/Payphone-Digital/jury/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestContext seeds the request context with a request id, client
// metadata and the start time, and echoes the id back to the caller.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = c.GetHeader(constants.HeaderXCorrelationID)
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(c.Request.Context(), ctxutil.RequestIDKey, requestID)
		ctx = context.WithValue(ctx, ctxutil.CorrelationIDKey, requestID)
		ctx = ctxutil.NewContextWithRequest(ctx, c.Request, "http", c.FullPath())

		c.Header(constants.HeaderXRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestTimeout bounds the request context. Zero disables it.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			logger.WarnWithContext(ctx, "Request exceeded its deadline").
				String("method", c.Request.Method).
				String("path", c.Request.URL.Path).
				Duration(timeout).
				Log()
		}
	}
}
