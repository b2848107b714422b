package service

import (
	"board-backend/internal/errors"
	"board-backend/internal/model"
	"board-backend/internal/util"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	util.InitLogger("error")
	os.Exit(m.Run())
}

// MockCustomerRepository 是 CustomerRepository 接口的模拟实现
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) CreateUser(customer *model.Customer) (bool, error) {
	args := m.Called(customer)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) IsUserIDTaken(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) IsEmailTaken(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) GetPasswordDigest(email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

func (m *MockCustomerRepository) FindByCredentials(email string) (*model.LoginCustomer, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoginCustomer), args.Error(1)
}

func (m *MockCustomerRepository) FindByID(id int) (*model.Customer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByUserID(userID string) (*model.Customer, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) IncrementPostCount(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(page, pageSize int) ([]*model.Customer, error) {
	args := m.Called(page, pageSize)
	return args.Get(0).([]*model.Customer), args.Error(1)
}

// TestRegister 测试用户注册功能
func TestRegister(t *testing.T) {
	// 测试成功注册
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	customer := &model.Customer{
		UserID:       "alice",
		Email:        "alice@example.com",
		PasswordHash: "Secretpw1",
	}

	mockRepo.On("IsUserIDTaken", "alice").Return(false, nil)
	mockRepo.On("IsEmailTaken", "alice@example.com").Return(false, nil)
	mockRepo.On("CreateUser", mock.AnythingOfType("*model.Customer")).Return(true, nil)

	err := service.Register(customer)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// 注册成功后密码字段应当是哈希而不是明文
	assert.NotEqual(t, "Secretpw1", customer.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte("Secretpw1")))
}

// TestRegisterDuplicateUserID 测试用户ID重复时注册失败且不写入
func TestRegisterDuplicateUserID(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	mockRepo.On("IsUserIDTaken", "alice").Return(true, nil)

	err := service.Register(&model.Customer{
		UserID:       "alice",
		Email:        "other@example.com",
		PasswordHash: "Secretpw1",
	})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCustomerExists))
	mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
}

// TestRegisterDuplicateEmail 测试邮箱重复时注册失败且不写入
func TestRegisterDuplicateEmail(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	mockRepo.On("IsUserIDTaken", "bob").Return(false, nil)
	mockRepo.On("IsEmailTaken", "alice@example.com").Return(true, nil)

	err := service.Register(&model.Customer{
		UserID:       "bob",
		Email:        "alice@example.com",
		PasswordHash: "Secretpw1",
	})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCustomerExists))
	mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything)
}

// TestLogin 测试登录成功返回会话投影
func TestLogin(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	digest, err := bcrypt.GenerateFromPassword([]byte("Secretpw1"), bcrypt.MinCost)
	assert.NoError(t, err)

	login := &model.LoginCustomer{
		ID:           1,
		UserID:       "alice",
		Email:        "alice@example.com",
		PasswordHash: string(digest),
	}

	mockRepo.On("GetPasswordDigest", "alice@example.com").Return(string(digest), nil)
	mockRepo.On("FindByCredentials", "alice@example.com").Return(login, nil)

	result, err := service.Login("alice@example.com", "Secretpw1")
	assert.NoError(t, err)
	assert.Equal(t, 1, result.ID)
	assert.Equal(t, "alice", result.UserID)
	mockRepo.AssertExpectations(t)
}

// TestLoginWrongPassword 测试密码错误时的登录失败
func TestLoginWrongPassword(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	digest, err := bcrypt.GenerateFromPassword([]byte("Secretpw1"), bcrypt.MinCost)
	assert.NoError(t, err)

	mockRepo.On("GetPasswordDigest", "alice@example.com").Return(string(digest), nil)

	_, err = service.Login("alice@example.com", "wrongpassword")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

// TestLoginUnknownEmail 测试邮箱未注册时返回与密码错误相同的错误码
func TestLoginUnknownEmail(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	mockRepo.On("GetPasswordDigest", "nobody@example.com").Return("", sql.ErrNoRows)

	_, err := service.Login("nobody@example.com", "Secretpw1")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

// TestLoginMalformedDigest 测试存储的哈希损坏时按验证失败处理，不会panic
func TestLoginMalformedDigest(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	mockRepo.On("GetPasswordDigest", "alice@example.com").Return("not-a-bcrypt-digest", nil)

	_, err := service.Login("alice@example.com", "Secretpw1")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

// TestGetCustomerByUserID 测试通过用户ID查找用户
func TestGetCustomerByUserID(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	mockRepo.On("FindByUserID", "alice").Return(&model.Customer{ID: 1, UserID: "alice"}, nil)
	mockRepo.On("FindByUserID", "nobody").Return(nil, nil)

	customer, err := service.GetCustomerByUserID("alice")
	assert.NoError(t, err)
	assert.Equal(t, 1, customer.ID)

	_, err = service.GetCustomerByUserID("nobody")
	assert.True(t, errors.Is(err, errors.ErrCustomerNotFound))
}

// TestIsAdmin 测试管理员标志判断
func TestIsAdmin(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil)

	mockRepo.On("FindByID", 1).Return(&model.Customer{ID: 1, Admin: 1}, nil)
	mockRepo.On("FindByID", 2).Return(&model.Customer{ID: 2, Admin: 0}, nil)

	isAdmin, err := service.IsAdmin(1)
	assert.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = service.IsAdmin(2)
	assert.NoError(t, err)
	assert.False(t, isAdmin)
}
