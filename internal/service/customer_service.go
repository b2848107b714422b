package service

import (
	"board-backend/config"
	"board-backend/internal/errors"
	"board-backend/internal/model"
	"board-backend/internal/repository/interfaces"
	"board-backend/internal/util"
	"database/sql"

	"go.uber.org/zap"

	"golang.org/x/crypto/bcrypt"
)

// CustomerService 处理与用户相关的业务逻辑
type CustomerService struct {
	customerRepo interfaces.CustomerRepository
	emailService *EmailService // 可以为 nil，此时不发送欢迎邮件
}

// NewCustomerService 创建一个新的 CustomerService 实例
func NewCustomerService(customerRepo interfaces.CustomerRepository, emailService *EmailService) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		emailService: emailService,
	}
}

// IsUserIDTaken 检查用户ID是否已被使用
func (s *CustomerService) IsUserIDTaken(userID string) (bool, error) {
	return s.customerRepo.IsUserIDTaken(userID)
}

// IsEmailTaken 检查邮箱是否已被使用
func (s *CustomerService) IsEmailTaken(email string) (bool, error) {
	return s.customerRepo.IsEmailTaken(email)
}

// Register 注册新用户
// customer.PasswordHash 字段传入时为明文密码，注册成功后为 bcrypt 哈希。
// 预检查只提供快速失败的友好提示，数据库唯一约束才是防止并发重复注册的最终保障。
func (s *CustomerService) Register(customer *model.Customer) error {
	taken, err := s.customerRepo.IsUserIDTaken(customer.UserID)
	if err != nil {
		return err
	}
	if taken {
		return errors.New(errors.ErrCustomerExists, "用户ID已存在")
	}

	taken, err = s.customerRepo.IsEmailTaken(customer.Email)
	if err != nil {
		return err
	}
	if taken {
		return errors.New(errors.ErrCustomerExists, "邮箱已被注册")
	}

	// 生成密码哈希
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(customer.PasswordHash), config.AppConfig.BcryptCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "生成密码哈希失败", err)
	}
	customer.PasswordHash = string(hashedPassword)

	// 创建用户，唯一约束冲突在这里以 ErrCustomerExists 返回
	if _, err := s.customerRepo.CreateUser(customer); err != nil {
		return err
	}

	// 发送欢迎邮件，失败只记录日志，不影响注册结果
	if s.emailService != nil && s.emailService.Enabled() {
		s.emailService.SendWelcomeEmail(customer.Email, customer.UserID)
	}

	return nil
}

// Login 用户登录
// 邮箱不存在和密码错误返回同一个错误码，避免暴露哪一项出错
func (s *CustomerService) Login(email, password string) (*model.LoginCustomer, error) {
	digest, err := s.customerRepo.GetPasswordDigest(email)
	if err != nil {
		if err == sql.ErrNoRows {
			util.Logger.Warn("登录失败，邮箱未注册", zap.String("email", email))
			return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码不正确")
		}
		return nil, err
	}

	// 哈希格式异常和密码不匹配一样按验证失败处理
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)); err != nil {
		util.Logger.Warn("登录失败，密码验证未通过", zap.String("email", email))
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码不正确")
	}

	login, err := s.customerRepo.FindByCredentials(email)
	if err != nil {
		return nil, err
	}
	if login == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码不正确")
	}

	util.Logger.Info("用户登录成功", zap.Int("customer_id", login.ID))
	return login, nil
}

// GetCustomerByID 通过主键获取用户信息
func (s *CustomerService) GetCustomerByID(id int) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New(errors.ErrCustomerNotFound, "用户不存在")
	}
	return customer, nil
}

// GetCustomerByUserID 通过用户ID查找用户
func (s *CustomerService) GetCustomerByUserID(userID string) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New(errors.ErrCustomerNotFound, "用户不存在")
	}
	return customer, nil
}

// GetLoginCustomerByID 返回指定用户的会话投影
func (s *CustomerService) GetLoginCustomerByID(id int) (*model.LoginCustomer, error) {
	customer, err := s.GetCustomerByID(id)
	if err != nil {
		return nil, err
	}
	return customer.LoginProjection(), nil
}

// IncrementPostCount 自增指定用户的发帖计数
func (s *CustomerService) IncrementPostCount(userID string) error {
	return s.customerRepo.IncrementPostCount(userID)
}

// IsAdmin 判断用户是否为管理员
func (s *CustomerService) IsAdmin(customerID int) (bool, error) {
	customer, err := s.GetCustomerByID(customerID)
	if err != nil {
		return false, err
	}
	return customer.Admin == 1, nil
}

// GetCustomers 返回分页的用户列表
func (s *CustomerService) GetCustomers(page, pageSize int) ([]*model.Customer, error) {
	return s.customerRepo.FindAll(page, pageSize)
}

// CustomerServiceInterface 供处理器层依赖和测试替身使用
type CustomerServiceInterface interface {
	Register(customer *model.Customer) error
	Login(email, password string) (*model.LoginCustomer, error)
	GetCustomerByID(id int) (*model.Customer, error)
	GetCustomerByUserID(userID string) (*model.Customer, error)
	GetLoginCustomerByID(id int) (*model.LoginCustomer, error)
	IsUserIDTaken(userID string) (bool, error)
	IsEmailTaken(email string) (bool, error)
	IncrementPostCount(userID string) error
	IsAdmin(customerID int) (bool, error)
	GetCustomers(page, pageSize int) ([]*model.Customer, error)
}

// 确保 CustomerService 实现了 CustomerServiceInterface
var _ CustomerServiceInterface = (*CustomerService)(nil)
