package board

import (
	"board-backend/internal/errors"
	"board-backend/internal/model"
	"board-backend/internal/service"
	"board-backend/internal/storage"
	"board-backend/internal/util"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BoardHandler 处理帖子相关的HTTP请求
type BoardHandler struct {
	postService *service.PostService
	storage     storage.Storage
}

func NewBoardHandler(postService *service.PostService, storage storage.Storage) *BoardHandler {
	return &BoardHandler{
		postService: postService,
		storage:     storage,
	}
}

// loginCustomer 从上下文取出认证中间件放入的会话投影
func loginCustomer(c *gin.Context) *model.LoginCustomer {
	value, exists := c.Get("login_customer")
	if !exists {
		return nil
	}
	login, ok := value.(*model.LoginCustomer)
	if !ok {
		return nil
	}
	return login
}

// CreatePost 发布帖子，支持可选的附件上传
func (h *BoardHandler) CreatePost(c *gin.Context) {
	viewer := loginCustomer(c)
	if viewer == nil {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
		return
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		util.Logger.Error("无法解析表单数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "无法解析表单数据", err))
		return
	}

	post := &model.Post{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
	}

	// 处理可选附件
	if file, err := c.FormFile("attachment"); err == nil && file != nil {
		filename := util.GenerateUniqueFilename(file.Filename)
		path := fmt.Sprintf("posts/%s/%s", viewer.UserID, filename)
		attachmentURL, err := h.storage.UploadFile(file, path)
		if err != nil {
			util.Logger.Error("附件上传失败", zap.Error(err))
			errors.HandleError(c, errors.Wrap(errors.ErrInternal, "附件上传失败", err))
			return
		}
		post.AttachmentURL = attachmentURL
	}

	result, err := h.postService.SubmitPost(post, viewer)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.ErrValidation {
			errors.HandleError(c, err)
			return
		}
		util.Logger.Error("创建帖子失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "创建帖子失败", err))
		return
	}

	errors.HandleSuccess(c, result, "帖子创建成功")
}

// ListPosts 返回分页的帖子列表
func (h *BoardHandler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	posts, total, err := h.postService.ListPosts(page, pageSize)
	if err != nil {
		util.Logger.Error("获取帖子列表失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取帖子列表失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"posts":     posts,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

// ViewPost 查看帖子详情，非作者浏览会使浏览数加一
func (h *BoardHandler) ViewPost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "无效的帖子ID", err))
		return
	}

	viewer := loginCustomer(c)
	post, err := h.postService.ViewPost(id, viewer)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	// 补充当前用户的点赞状态
	if viewer != nil {
		isLiked, err := h.postService.IsPostLikedByUser(id, viewer.ID)
		if err != nil {
			util.Logger.Warn("查询点赞状态失败", zap.Error(err), zap.Int("post_id", id))
		} else {
			post.IsLiked = isLiked
		}
	}

	errors.HandleSuccess(c, post, "")
}

// ToggleLike 翻转当前用户对帖子的点赞状态
func (h *BoardHandler) ToggleLike(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "无效的帖子ID", err))
		return
	}

	viewer := loginCustomer(c)
	if viewer == nil {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
		return
	}

	liked, err := h.postService.ToggleLike(id, viewer)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	likeCount, err := h.postService.GetLikeCount(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"liked":      liked,
		"like_count": likeCount,
	}, "")
}
