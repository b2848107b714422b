package admin

import (
	"board-backend/internal/errors"
	"board-backend/internal/middleware"
	"board-backend/internal/service"
	"board-backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler 处理管理后台相关的HTTP请求
type AdminHandler struct {
	customerService service.CustomerServiceInterface
	statsService    *service.StatsService
	errorMonitor    *middleware.ErrorMonitor
}

func NewAdminHandler(customerService service.CustomerServiceInterface, statsService *service.StatsService, errorMonitor *middleware.ErrorMonitor) *AdminHandler {
	return &AdminHandler{
		customerService: customerService,
		statsService:    statsService,
		errorMonitor:    errorMonitor,
	}
}

// GetSystemStats 返回全站统计数据和进程内的错误计数
func (h *AdminHandler) GetSystemStats(c *gin.Context) {
	stats, err := h.statsService.GetSystemStats()
	if err != nil {
		util.Logger.Error("获取系统统计失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取系统统计失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"totals":       stats,
		"error_counts": h.errorMonitor.GetErrorCounts(),
	}, "")
}

// GetCustomers 返回分页的用户列表
func (h *AdminHandler) GetCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	customers, err := h.customerService.GetCustomers(page, pageSize)
	if err != nil {
		util.Logger.Error("获取用户列表失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取用户列表失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"customers": customers,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

// GetCustomerByUserID 通过用户ID查找单个用户
func (h *AdminHandler) GetCustomerByUserID(c *gin.Context) {
	userID := c.Param("user_id")

	customer, err := h.customerService.GetCustomerByUserID(userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, customer, "")
}
