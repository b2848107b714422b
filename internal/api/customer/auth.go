package customer

import (
	"board-backend/internal/errors"
	"board-backend/internal/model"
	"board-backend/internal/service"
	"board-backend/internal/util"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	customerService service.CustomerServiceInterface
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(customerService service.CustomerServiceInterface) *AuthHandler {
	return &AuthHandler{customerService}
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var registerData struct {
		UserID   string `json:"user_id" binding:"required,not_blank"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Location string `json:"location"`
		Address  string `json:"address"`
	}

	if err := c.ShouldBindJSON(&registerData); err != nil {
		util.Logger.Warn("注册失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if !isPasswordStrong(registerData.Password) {
		errors.HandleError(c, errors.New(errors.ErrWeakPassword, "密码强度不足"))
		return
	}

	customer := &model.Customer{
		UserID:       registerData.UserID,
		Email:        registerData.Email,
		PasswordHash: registerData.Password,
		Location:     registerData.Location,
		Address:      registerData.Address,
	}

	if err := h.customerService.Register(customer); err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.ErrCustomerExists {
			util.Logger.Warn("注册失败，用户ID或邮箱已存在",
				zap.String("user_id", customer.UserID))
			errors.HandleError(c, err)
			return
		}
		util.Logger.Error("注册失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "注册失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"customer_id": customer.ID,
	}, "注册成功")
}

// Login 处理用户登录请求
func (h *AuthHandler) Login(c *gin.Context) {
	var loginData struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	// 服务层已经把邮箱未注册和密码错误统一成同一种错误，
	// 其余错误（如数据库故障）原样上抛，由响应层映射状态码
	login, err := h.customerService.Login(loginData.Email, loginData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	token, err := util.GenerateToken(login.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"token":    token,
		"customer": login,
	}, "登录成功")
}

// RefreshToken 处理令牌刷新
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "缺少令牌"))
		return
	}

	// 和认证中间件一样，令牌携带 Bearer 前缀
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "无效的认证格式"))
		return
	}

	newToken, err := util.RefreshToken(parts[1])
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrUnauthorized, "刷新令牌失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"token": newToken}, "令牌刷新成功")
}

func isPasswordStrong(password string) bool {
	var (
		hasUpper  = false
		hasLower  = false
		hasNumber = false
	)
	if len(password) < 8 {
		return false
	}
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}
	return hasUpper && hasLower && hasNumber
}
