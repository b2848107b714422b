package model

// Customer 结构体表示注册用户模型
type Customer struct {
	ID           int    `json:"id"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // 密码哈希不应在JSON中暴露
	Location     string `json:"location"`
	Address      string `json:"address"`
	Admin        int    `json:"admin"`
	RegisterTime string `json:"register_time"`
	PostCount    int    `json:"post_count"`
}

// LoginCustomer 是登录成功后存放在会话中的用户投影
type LoginCustomer struct {
	ID           int    `json:"id"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// LoginProjection 从完整的用户记录生成会话投影
func (c *Customer) LoginProjection() *LoginCustomer {
	return &LoginCustomer{
		ID:           c.ID,
		UserID:       c.UserID,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
	}
}
