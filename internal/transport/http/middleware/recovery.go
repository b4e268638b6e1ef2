package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "studio-site-api/internal/transport/http/response"
)

// SimpleRecovery turns a panic into the generic 500 body. The panic value is
// logged, never returned.
func SimpleRecovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("rid", RequestIDFrom(c)),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(resp.CodeServerError, resp.Error(resp.CodeServerError, ""))
			}
		}()
		c.Next()
	}
}
