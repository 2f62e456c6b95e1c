package middleware

import (
	"runtime/debug"

	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				zap.L().Error("panic while handling request",
					zap.Any("error", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("stack", stack))

				errors.HandleError(c, errors.New(errors.ErrInternal, "internal server error"))
				c.Abort()
			}
		}()
		c.Next()
	}
}
