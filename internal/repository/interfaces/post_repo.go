package interfaces

import "board-backend/internal/model"

// PostRepository 定义了帖子相关的数据库操作接口
type PostRepository interface {
	// CreatePost 插入新帖子，创建时间由存储层赋值，生成的主键回填到记录中
	CreatePost(post *model.Post, author *model.LoginCustomer) error
	// GetPostByID 查找帖子，不存在时返回 (nil, nil)
	GetPostByID(id int) (*model.Post, error)
	// ListPosts 按创建时间倒序返回分页的帖子列表和总数
	ListPosts(page, pageSize int) ([]*model.Post, int, error)
	// IncrementViewCount 以单条 UPDATE 语句自增浏览计数
	IncrementViewCount(id int) error
	// ToggleLike 在一个事务内翻转点赞状态并重算 like_count，返回翻转后的状态
	ToggleLike(userID, postID int) (bool, error)
	IsPostLikedByUser(postID, userID int) (bool, error)
	GetLikeCount(postID int) (int, error)
	Count() (int, error)
	CountLikes() (int, error)
}
