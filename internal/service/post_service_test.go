package service

import (
	"board-backend/internal/errors"
	"board-backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository 是 PostRepository 接口的模拟实现
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) CreatePost(post *model.Post, author *model.LoginCustomer) error {
	args := m.Called(post, author)
	return args.Error(0)
}

func (m *MockPostRepository) GetPostByID(id int) (*model.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) ListPosts(page, pageSize int) ([]*model.Post, int, error) {
	args := m.Called(page, pageSize)
	return args.Get(0).([]*model.Post), args.Int(1), args.Error(2)
}

func (m *MockPostRepository) IncrementViewCount(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostRepository) ToggleLike(userID, postID int) (bool, error) {
	args := m.Called(userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) IsPostLikedByUser(postID, userID int) (bool, error) {
	args := m.Called(postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) GetLikeCount(postID int) (int, error) {
	args := m.Called(postID)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) Count() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) CountLikes() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// TestSubmitPost 测试发帖成功并更新作者的发帖计数
func TestSubmitPost(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockCustomerRepo := new(MockCustomerRepository)
	service := NewPostService(mockPostRepo, mockCustomerRepo)

	author := &model.LoginCustomer{ID: 1, UserID: "alice"}
	post := &model.Post{Title: "hello", Content: "world"}

	mockPostRepo.On("CreatePost", post, author).Run(func(args mock.Arguments) {
		p := args.Get(0).(*model.Post)
		p.ID = 7
		p.Username = author.UserID
		p.CreatedAt = "2026-08-29 12:00:00"
	}).Return(nil)
	mockCustomerRepo.On("IncrementPostCount", "alice").Return(nil)

	created, err := service.SubmitPost(post, author)
	assert.NoError(t, err)
	assert.Equal(t, 7, created.ID)
	assert.Equal(t, "alice", created.Username)
	assert.NotEmpty(t, created.CreatedAt)
	mockPostRepo.AssertExpectations(t)
	mockCustomerRepo.AssertExpectations(t)
}

// TestSubmitPostBlankFields 测试标题或内容为空白时在写入前失败
func TestSubmitPostBlankFields(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockCustomerRepo := new(MockCustomerRepository)
	service := NewPostService(mockPostRepo, mockCustomerRepo)

	author := &model.LoginCustomer{ID: 1, UserID: "alice"}

	_, err := service.SubmitPost(&model.Post{Title: "   ", Content: "world"}, author)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = service.SubmitPost(&model.Post{Title: "hello", Content: "\t\n"}, author)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	mockPostRepo.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything)
	mockCustomerRepo.AssertNotCalled(t, "IncrementPostCount", mock.Anything)
}

// TestSubmitPostCountFailureTolerated 测试发帖计数更新失败不影响帖子创建结果
func TestSubmitPostCountFailureTolerated(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockCustomerRepo := new(MockCustomerRepository)
	service := NewPostService(mockPostRepo, mockCustomerRepo)

	author := &model.LoginCustomer{ID: 1, UserID: "alice"}
	post := &model.Post{Title: "hello", Content: "world"}

	mockPostRepo.On("CreatePost", post, author).Return(nil)
	mockCustomerRepo.On("IncrementPostCount", "alice").
		Return(errors.New(errors.ErrDatabase, "更新发帖计数失败"))

	created, err := service.SubmitPost(post, author)
	assert.NoError(t, err)
	assert.NotNil(t, created)
}

// TestViewPost 测试非作者浏览时浏览数加一
func TestViewPost(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockCustomerRepo := new(MockCustomerRepository)
	service := NewPostService(mockPostRepo, mockCustomerRepo)

	mockPostRepo.On("GetPostByID", 7).Return(&model.Post{ID: 7, Username: "alice", ViewCount: 3}, nil)
	mockPostRepo.On("IncrementViewCount", 7).Return(nil)

	viewer := &model.LoginCustomer{ID: 2, UserID: "bob"}
	post, err := service.ViewPost(7, viewer)
	assert.NoError(t, err)
	assert.Equal(t, 4, post.ViewCount)
	mockPostRepo.AssertNumberOfCalls(t, "IncrementViewCount", 1)
}

// TestViewPostByAuthor 测试作者本人浏览不增加浏览数
func TestViewPostByAuthor(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockCustomerRepo := new(MockCustomerRepository)
	service := NewPostService(mockPostRepo, mockCustomerRepo)

	mockPostRepo.On("GetPostByID", 7).Return(&model.Post{ID: 7, Username: "alice", ViewCount: 3}, nil)

	author := &model.LoginCustomer{ID: 1, UserID: "alice"}
	post, err := service.ViewPost(7, author)
	assert.NoError(t, err)
	assert.Equal(t, 3, post.ViewCount)
	mockPostRepo.AssertNotCalled(t, "IncrementViewCount", mock.Anything)
}

// TestViewPostNotFound 测试浏览不存在的帖子
func TestViewPostNotFound(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockCustomerRepo := new(MockCustomerRepository)
	service := NewPostService(mockPostRepo, mockCustomerRepo)

	mockPostRepo.On("GetPostByID", 404).Return(nil, nil)

	_, err := service.ViewPost(404, &model.LoginCustomer{ID: 2, UserID: "bob"})
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}

// TestToggleLike 测试点赞状态翻转
func TestToggleLike(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockCustomerRepo := new(MockCustomerRepository)
	service := NewPostService(mockPostRepo, mockCustomerRepo)

	mockPostRepo.On("GetPostByID", 7).Return(&model.Post{ID: 7, Username: "alice"}, nil)
	mockPostRepo.On("ToggleLike", 2, 7).Return(true, nil)

	viewer := &model.LoginCustomer{ID: 2, UserID: "bob"}
	liked, err := service.ToggleLike(7, viewer)
	assert.NoError(t, err)
	assert.True(t, liked)
	mockPostRepo.AssertCalled(t, "ToggleLike", 2, 7)
}

// TestToggleLikeParity 测试连续两次点赞后状态翻转回未点赞
func TestToggleLikeParity(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockCustomerRepo := new(MockCustomerRepository)
	service := NewPostService(mockPostRepo, mockCustomerRepo)

	mockPostRepo.On("GetPostByID", 7).Return(&model.Post{ID: 7, Username: "alice"}, nil)
	mockPostRepo.On("ToggleLike", 2, 7).Return(true, nil).Once()
	mockPostRepo.On("ToggleLike", 2, 7).Return(false, nil).Once()

	viewer := &model.LoginCustomer{ID: 2, UserID: "bob"}

	liked, err := service.ToggleLike(7, viewer)
	assert.NoError(t, err)
	assert.True(t, liked)

	liked, err = service.ToggleLike(7, viewer)
	assert.NoError(t, err)
	assert.False(t, liked)

	mockPostRepo.AssertNumberOfCalls(t, "ToggleLike", 2)
}

// TestToggleLikeOwnPost 测试作者给自己的帖子点赞是空操作
func TestToggleLikeOwnPost(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockCustomerRepo := new(MockCustomerRepository)
	service := NewPostService(mockPostRepo, mockCustomerRepo)

	mockPostRepo.On("GetPostByID", 7).Return(&model.Post{ID: 7, Username: "alice"}, nil)

	author := &model.LoginCustomer{ID: 1, UserID: "alice"}
	liked, err := service.ToggleLike(7, author)
	assert.NoError(t, err)
	assert.False(t, liked)
	mockPostRepo.AssertNotCalled(t, "ToggleLike", mock.Anything, mock.Anything)
}

// TestToggleLikeNotFound 测试给不存在的帖子点赞
func TestToggleLikeNotFound(t *testing.T) {
	mockPostRepo := new(MockPostRepository)
	mockCustomerRepo := new(MockCustomerRepository)
	service := NewPostService(mockPostRepo, mockCustomerRepo)

	mockPostRepo.On("GetPostByID", 404).Return(nil, nil)

	_, err := service.ToggleLike(404, &model.LoginCustomer{ID: 2, UserID: "bob"})
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}
