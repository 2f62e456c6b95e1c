package middleware

import (
	"github.com/MALVV/cms-estrella-sur-sub002/internal/errors"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/service"
	"github.com/MALVV/cms-estrella-sur-sub002/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminMiddleware restricts a route group to administrators. Runs after
// AuthMiddleware has set user_id.
func AdminMiddleware(userService service.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "authentication required"))
			c.Abort()
			return
		}

		user, err := userService.GetUserByID(userID.(int))
		if err != nil || user.Role != "admin" {
			util.Logger.Warn("non-admin access attempt",
				zap.Int("user_id", userID.(int)),
				zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, errors.New(errors.ErrForbidden, "admin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
