package model

// Post 结构体表示帖子模型
type Post struct {
	ID            int    `json:"id"`
	Username      string `json:"username"` // 作者的 user_id
	Title         string `json:"title"`
	Content       string `json:"content"`
	CreatedAt     string `json:"created_at"` // 创建后不可变
	ViewCount     int    `json:"view_count"`
	LikeCount     int    `json:"like_count"`
	AttachmentURL string `json:"attachment_url,omitempty"`
	IsLiked       bool   `json:"is_liked"`
}

// Like 表示 (用户, 帖子) 的点赞关系，存在即点赞
type Like struct {
	UserID int `json:"user_id"`
	PostID int `json:"post_id"`
}
