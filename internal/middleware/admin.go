package middleware

import (
	"board-backend/internal/errors"
	"board-backend/internal/service"
	"board-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminMiddleware 确保只有管理员可以访问某些路由
func AdminMiddleware(customerService service.CustomerServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, exists := c.Get("customer_id")
		if !exists {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
			c.Abort()
			return
		}

		isAdmin, err := customerService.IsAdmin(customerID.(int))
		if err != nil || !isAdmin {
			util.Logger.Warn("非管理员访问",
				zap.Int("customer_id", customerID.(int)),
				zap.Error(err))
			errors.HandleError(c, errors.New(errors.ErrForbidden, "需要管理员权限"))
			c.Abort()
			return
		}

		c.Next()
	}
}
