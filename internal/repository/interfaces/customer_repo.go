package interfaces

import "board-backend/internal/model"

// CustomerRepository 定义了用户相关的数据库操作接口
type CustomerRepository interface {
	// CreateUser 插入新用户，注册时间由存储层统一赋值，生成的主键回填到记录中
	CreateUser(customer *model.Customer) (bool, error)
	IsUserIDTaken(userID string) (bool, error)
	IsEmailTaken(email string) (bool, error)
	// GetPasswordDigest 返回指定邮箱对应的密码哈希，邮箱不存在时返回 sql.ErrNoRows
	GetPasswordDigest(email string) (string, error)
	FindByCredentials(email string) (*model.LoginCustomer, error)
	FindByID(id int) (*model.Customer, error)
	FindByUserID(userID string) (*model.Customer, error)
	// IncrementPostCount 以单条 UPDATE 语句自增发帖计数
	IncrementPostCount(userID string) error
	Count() (int, error)
	FindAll(page, pageSize int) ([]*model.Customer, error)
}
