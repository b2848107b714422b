package middleware

import (
	"board-backend/internal/errors"
	"board-backend/internal/service"
	"board-backend/internal/util"
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 验证请求携带的令牌，并把当前用户的会话投影放进上下文，
// 核心操作从上下文显式接收访问者身份，而不是读取任何隐式全局状态
func AuthMiddleware(customerService service.CustomerServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "无效的认证格式"))
			c.Abort()
			return
		}

		customerID, err := util.ValidateToken(parts[1])
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "无效或过期的令牌", err))
			c.Abort()
			return
		}

		loginCustomer, err := customerService.GetLoginCustomerByID(customerID)
		if err != nil {
			util.Logger.Warn("令牌对应的用户不存在",
				zap.Int("customer_id", customerID),
				zap.Error(err))
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "用户不存在"))
			c.Abort()
			return
		}

		c.Set("customer_id", customerID)
		c.Set("login_customer", loginCustomer)

		select {
		case <-ctx.Done():
			errors.HandleError(c, errors.New(errors.ErrTimeout, "请求超时"))
			c.Abort()
			return
		default:
			c.Next()
		}
	}
}
