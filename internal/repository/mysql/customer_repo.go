package mysql

import (
	"board-backend/internal/errors"
	"board-backend/internal/model"
	"board-backend/internal/util"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const datetimeLayout = "2006-01-02 15:04:05"

// customerRepository 实现了 CustomerRepository 接口
type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository 创建一个新的 customerRepository 实例
func NewCustomerRepository(db *sql.DB) *customerRepository {
	return &customerRepository{db}
}

// CreateUser 创建一个新用户
// user_id 和 email 的唯一约束是防止重复注册的最终保障，
// 服务层的预检查只是为了给出更友好的错误提示
func (r *customerRepository) CreateUser(customer *model.Customer) (bool, error) {
	customer.RegisterTime = time.Now().Format(datetimeLayout)

	query := `INSERT INTO customer (user_id, email, password_hash, location, address, admin, register_time, post_count)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query,
		customer.UserID, customer.Email, customer.PasswordHash,
		customer.Location, customer.Address, customer.Admin,
		customer.RegisterTime, customer.PostCount)
	if err != nil {
		if isDuplicateEntry(err) {
			util.Logger.Warn("创建用户失败，用户ID或邮箱已存在",
				zap.String("user_id", customer.UserID))
			return false, errors.Wrap(errors.ErrCustomerExists, "用户ID或邮箱已存在", err)
		}
		util.Logger.Error("创建用户失败", zap.Error(err))
		return false, errors.Wrap(errors.ErrDatabase, "创建用户失败", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新用户ID失败", zap.Error(err))
		return false, errors.Wrap(errors.ErrDatabase, "获取新用户ID失败", err)
	}
	customer.ID = int(id)

	util.Logger.Info("用户创建成功", zap.Int("customer_id", customer.ID))
	return true, nil
}

// IsUserIDTaken 检查用户ID是否已被使用
func (r *customerRepository) IsUserIDTaken(userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow("SELECT EXISTS(SELECT 1 FROM customer WHERE user_id = ?)", userID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "检查用户ID失败", err)
	}
	return exists, nil
}

// IsEmailTaken 检查邮箱是否已被使用
func (r *customerRepository) IsEmailTaken(email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow("SELECT EXISTS(SELECT 1 FROM customer WHERE email = ?)", email).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "检查邮箱失败", err)
	}
	return exists, nil
}

// GetPasswordDigest 返回指定邮箱的密码哈希
func (r *customerRepository) GetPasswordDigest(email string) (string, error) {
	var digest string
	err := r.db.QueryRow("SELECT password_hash FROM customer WHERE email = ?", email).Scan(&digest)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", errors.Wrap(errors.ErrDatabase, "查询密码哈希失败", err)
	}
	return digest, nil
}

// FindByCredentials 通过邮箱返回登录投影
func (r *customerRepository) FindByCredentials(email string) (*model.LoginCustomer, error) {
	query := `SELECT id, user_id, email, password_hash FROM customer WHERE email = ?`
	var login model.LoginCustomer
	err := r.db.QueryRow(query, email).Scan(
		&login.ID, &login.UserID, &login.Email, &login.PasswordHash,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrDatabase, "查询登录用户失败", err)
	}
	return &login, nil
}

// FindByID 通过主键查找用户
func (r *customerRepository) FindByID(id int) (*model.Customer, error) {
	query := `SELECT id, user_id, email, password_hash, location, address, admin, register_time, post_count
              FROM customer WHERE id = ?`
	var customer model.Customer
	err := r.db.QueryRow(query, id).Scan(
		&customer.ID, &customer.UserID, &customer.Email, &customer.PasswordHash,
		&customer.Location, &customer.Address, &customer.Admin,
		&customer.RegisterTime, &customer.PostCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	return &customer, nil
}

// FindByUserID 通过用户ID查找用户
func (r *customerRepository) FindByUserID(userID string) (*model.Customer, error) {
	query := `SELECT id, user_id, email, password_hash, location, address, admin, register_time, post_count
              FROM customer WHERE user_id = ?`
	var customer model.Customer
	err := r.db.QueryRow(query, userID).Scan(
		&customer.ID, &customer.UserID, &customer.Email, &customer.PasswordHash,
		&customer.Location, &customer.Address, &customer.Admin,
		&customer.RegisterTime, &customer.PostCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户失败", err)
	}
	return &customer, nil
}

// IncrementPostCount 自增指定用户的发帖计数
// 必须由数据库计算自增，避免并发发帖时丢失更新
func (r *customerRepository) IncrementPostCount(userID string) error {
	result, err := r.db.Exec(`UPDATE customer SET post_count = post_count + 1 WHERE user_id = ?`, userID)
	if err != nil {
		util.Logger.Error("更新发帖计数失败", zap.Error(err), zap.String("user_id", userID))
		return errors.Wrap(errors.ErrDatabase, "更新发帖计数失败", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "获取影响行数失败", err)
	}
	if affected == 0 {
		return errors.New(errors.ErrCustomerNotFound, fmt.Sprintf("用户不存在：%s", userID))
	}
	return nil
}

// Count 返回用户总数
func (r *customerRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM customer").Scan(&count)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, "统计用户总数失败", err)
	}
	return count, nil
}

// FindAll 返回分页的用户列表
func (r *customerRepository) FindAll(page, pageSize int) ([]*model.Customer, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, user_id, email, password_hash, location, address, admin, register_time, post_count
              FROM customer ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "查询用户列表失败", err)
	}
	defer rows.Close()

	var customers []*model.Customer
	for rows.Next() {
		var customer model.Customer
		err := rows.Scan(
			&customer.ID, &customer.UserID, &customer.Email, &customer.PasswordHash,
			&customer.Location, &customer.Address, &customer.Admin,
			&customer.RegisterTime, &customer.PostCount,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "扫描用户数据失败", err)
		}
		customers = append(customers, &customer)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "遍历用户数据失败", err)
	}
	return customers, nil
}

// isDuplicateEntry 判断是否为唯一约束冲突 (MySQL 错误码 1062)
func isDuplicateEntry(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
