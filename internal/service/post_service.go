package service

import (
	"board-backend/internal/errors"
	"board-backend/internal/model"
	"board-backend/internal/repository/interfaces"
	"board-backend/internal/util"
	"strings"

	"go.uber.org/zap"
)

// PostService 处理与帖子相关的业务逻辑
type PostService struct {
	postRepo     interfaces.PostRepository
	customerRepo interfaces.CustomerRepository
}

// NewPostService 创建一个新的 PostService 实例
func NewPostService(postRepo interfaces.PostRepository, customerRepo interfaces.CustomerRepository) *PostService {
	return &PostService{
		postRepo:     postRepo,
		customerRepo: customerRepo,
	}
}

// SubmitPost 发布帖子
// 校验失败在任何写入之前返回。帖子创建成功后自增作者的发帖计数，
// 计数更新失败只记录日志：帖子本身是主要产物，不因计数失败回滚。
func (s *PostService) SubmitPost(post *model.Post, author *model.LoginCustomer) (*model.Post, error) {
	if strings.TrimSpace(post.Title) == "" || strings.TrimSpace(post.Content) == "" {
		return nil, errors.New(errors.ErrValidation, "标题和内容不能为空")
	}

	if err := s.postRepo.CreatePost(post, author); err != nil {
		return nil, err
	}

	if err := s.customerRepo.IncrementPostCount(author.UserID); err != nil {
		util.Logger.Warn("帖子已创建但更新发帖计数失败",
			zap.Error(err),
			zap.Int("post_id", post.ID),
			zap.String("user_id", author.UserID))
	}

	return post, nil
}

// GetPost 获取指定帖子
func (s *PostService) GetPost(id int) (*model.Post, error) {
	post, err := s.postRepo.GetPostByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	return post, nil
}

// ViewPost 查看帖子，作者本人浏览不计入浏览数
func (s *PostService) ViewPost(id int, viewer *model.LoginCustomer) (*model.Post, error) {
	post, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}

	if viewer != nil && viewer.UserID == post.Username {
		return post, nil
	}

	if err := s.postRepo.IncrementViewCount(id); err != nil {
		return nil, err
	}
	post.ViewCount++

	return post, nil
}

// ToggleLike 翻转点赞状态并返回翻转后的状态，作者给自己的帖子点赞是空操作
func (s *PostService) ToggleLike(postID int, viewer *model.LoginCustomer) (bool, error) {
	post, err := s.GetPost(postID)
	if err != nil {
		return false, err
	}

	// 作者不可能给自己点过赞，空操作后的状态恒为未点赞
	if viewer.UserID == post.Username {
		util.Logger.Debug("作者尝试给自己的帖子点赞，忽略",
			zap.Int("post_id", postID),
			zap.String("user_id", viewer.UserID))
		return false, nil
	}

	return s.postRepo.ToggleLike(viewer.ID, postID)
}

// GetLikeCount 返回指定帖子当前的点赞总数
func (s *PostService) GetLikeCount(postID int) (int, error) {
	return s.postRepo.GetLikeCount(postID)
}

// ListPosts 返回分页的帖子列表和总数
func (s *PostService) ListPosts(page, pageSize int) ([]*model.Post, int, error) {
	return s.postRepo.ListPosts(page, pageSize)
}

// IsPostLikedByUser 查询用户是否点赞了指定帖子
func (s *PostService) IsPostLikedByUser(postID, userID int) (bool, error) {
	return s.postRepo.IsPostLikedByUser(postID, userID)
}
