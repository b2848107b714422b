package mysql

import (
	"board-backend/internal/errors"
	"board-backend/internal/model"
	"board-backend/internal/util"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// postRepository 实现了 PostRepository 接口
type postRepository struct {
	db *sql.DB
}

// NewPostRepository 创建一个新的 postRepository 实例
func NewPostRepository(db *sql.DB) *postRepository {
	return &postRepository{db}
}

// CreatePost 创建帖子，创建时间由服务器赋值，计数从0开始
func (r *postRepository) CreatePost(post *model.Post, author *model.LoginCustomer) error {
	post.Username = author.UserID
	post.CreatedAt = time.Now().Format(datetimeLayout)

	query := `INSERT INTO post (username, title, content, created_at, view_count, like_count, attachment_url)
              VALUES (?, ?, ?, ?, 0, 0, ?)`
	result, err := r.db.Exec(query, post.Username, post.Title, post.Content, post.CreatedAt, post.AttachmentURL)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "创建帖子失败", err)
	}

	postID, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新帖子ID失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "获取新帖子ID失败", err)
	}
	post.ID = int(postID)
	post.ViewCount = 0
	post.LikeCount = 0

	util.Logger.Info("帖子创建成功",
		zap.Int("post_id", post.ID),
		zap.String("username", post.Username))
	return nil
}

// GetPostByID 查找指定帖子，不存在时返回 (nil, nil)
func (r *postRepository) GetPostByID(id int) (*model.Post, error) {
	query := `SELECT id, username, title, content, created_at, view_count, like_count, attachment_url
              FROM post WHERE id = ?`
	var post model.Post
	err := r.db.QueryRow(query, id).Scan(
		&post.ID, &post.Username, &post.Title, &post.Content,
		&post.CreatedAt, &post.ViewCount, &post.LikeCount, &post.AttachmentURL,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrDatabase, "查询帖子失败", err)
	}
	return &post, nil
}

// ListPosts 按创建时间倒序返回分页的帖子列表和总数
func (r *postRepository) ListPosts(page, pageSize int) ([]*model.Post, int, error) {
	// 首先取总数
	var total int
	err := r.db.QueryRow("SELECT COUNT(*) FROM post").Scan(&total)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "统计帖子总数失败", err)
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, username, title, content, created_at, view_count, like_count, attachment_url
              FROM post
              ORDER BY created_at DESC, id DESC
              LIMIT ? OFFSET ?`

	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "查询帖子列表失败", err)
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		err := rows.Scan(
			&post.ID, &post.Username, &post.Title, &post.Content,
			&post.CreatedAt, &post.ViewCount, &post.LikeCount, &post.AttachmentURL,
		)
		if err != nil {
			return nil, 0, errors.Wrap(errors.ErrDatabase, "扫描帖子数据失败", err)
		}
		posts = append(posts, &post)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabase, "遍历帖子数据失败", err)
	}

	return posts, total, nil
}

// IncrementViewCount 自增浏览计数
// 必须由数据库计算自增，并发浏览时不会丢失更新
func (r *postRepository) IncrementViewCount(id int) error {
	_, err := r.db.Exec(`UPDATE post SET view_count = view_count + 1 WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("更新浏览计数失败", zap.Error(err), zap.Int("post_id", id))
		return errors.Wrap(errors.ErrDatabase, "更新浏览计数失败", err)
	}
	return nil
}

// ToggleLike 翻转 (用户, 帖子) 的点赞状态并重算帖子的 like_count
// 检查、增删、重算必须在同一个事务内完成，并发读取不能观察到中间状态
func (r *postRepository) ToggleLike(userID, postID int) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "开始事务失败", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM likes
            WHERE user_id = ? AND post_id = ?
        )`, userID, postID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "查询点赞记录失败", err)
	}

	if exists {
		_, err = tx.Exec(`DELETE FROM likes WHERE user_id = ? AND post_id = ?`, userID, postID)
	} else {
		_, err = tx.Exec(`INSERT INTO likes (user_id, post_id) VALUES (?, ?)`, userID, postID)
	}
	if err != nil {
		util.Logger.Error("翻转点赞状态失败",
			zap.Error(err),
			zap.Int("user_id", userID),
			zap.Int("post_id", postID))
		return false, errors.Wrap(errors.ErrDatabase, "翻转点赞状态失败", err)
	}

	// like_count 的权威值始终来自 likes 表的聚合，重算可以自愈任何漂移
	_, err = tx.Exec(`UPDATE post SET like_count =
        (SELECT COUNT(*) FROM likes WHERE post_id = ?) WHERE id = ?`, postID, postID)
	if err != nil {
		util.Logger.Error("重算点赞计数失败", zap.Error(err), zap.Int("post_id", postID))
		return false, errors.Wrap(errors.ErrDatabase, "重算点赞计数失败", err)
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return false, errors.Wrap(errors.ErrDatabase, "提交事务失败", err)
	}

	liked := !exists
	util.Logger.Info("点赞状态已翻转",
		zap.Int("user_id", userID),
		zap.Int("post_id", postID),
		zap.Bool("liked", liked))
	return liked, nil
}

// IsPostLikedByUser 查询用户是否点赞了指定帖子
func (r *postRepository) IsPostLikedByUser(postID, userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM likes
            WHERE post_id = ? AND user_id = ?
        )
    `, postID, userID).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "查询点赞状态失败", err)
	}
	return exists, nil
}

// GetLikeCount 返回指定帖子的点赞总数
func (r *postRepository) GetLikeCount(postID int) (int, error) {
	var count int
	err := r.db.QueryRow(`
        SELECT COUNT(*)
        FROM likes
        WHERE post_id = ?
    `, postID).Scan(&count)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, "统计点赞数失败", err)
	}
	return count, nil
}

// Count 返回帖子总数
func (r *postRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM post").Scan(&count)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, "统计帖子总数失败", err)
	}
	return count, nil
}

// CountLikes 返回全站点赞总数
func (r *postRepository) CountLikes() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM likes").Scan(&count)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, "统计点赞总数失败", err)
	}
	return count, nil
}
