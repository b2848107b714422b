package customer

import (
	"board-backend/internal/errors"
	"board-backend/internal/service"
	"board-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	customerService service.CustomerServiceInterface
}

func NewProfileHandler(customerService service.CustomerServiceInterface) *ProfileHandler {
	return &ProfileHandler{customerService}
}

// GetProfile 返回当前登录用户的资料
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	customerID := c.GetInt("customer_id")
	customer, err := h.customerService.GetCustomerByID(customerID)
	if err != nil {
		util.Logger.Error("获取用户资料失败", zap.Error(err))
		if appErr, ok := err.(*errors.AppError); ok {
			errors.HandleError(c, appErr)
			return
		}
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取用户资料失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"customer": customer,
	}, "")
}
