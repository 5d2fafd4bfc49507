package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blog-platform/internal/domain"
	"blog-platform/internal/repository"
	"blog-platform/internal/repository/mocks"
	"blog-platform/internal/service"
)

func strPtr(s string) *string { return &s }

// --- 测试 Create 方法 ---

func TestPostService_Create_Success(t *testing.T) {
	// Arrange
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo)
	ctx := context.Background()
	authorID := uint(7)

	mockPostRepo.On("Save", ctx, mock.MatchedBy(func(post *domain.Post) bool {
		// 作者身份必须来自调用者而不是请求内容
		assert.Equal(t, authorID, post.AuthorID)
		assert.Equal(t, "My first blog post", post.Title)
		return true
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Post).ID = 42 // 模拟数据库分配 ID
		}).
		Return(nil).
		Once()

	// Act
	post, err := postService.Create(ctx, authorID, "My first blog post", "a summary", strings.Repeat("body ", 12))

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, uint(42), post.ID)
	assert.Equal(t, authorID, post.AuthorID)

	mockPostRepo.AssertExpectations(t)
}

func TestPostService_Create_MissingFields(t *testing.T) {
	// Arrange
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo)
	ctx := context.Background()

	// Act: 缺少正文
	_, err := postService.Create(ctx, 7, "My first blog post", "a summary", "")

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrValidation)
	mockPostRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPostService_Create_SchemaValidationSurfaced(t *testing.T) {
	// Arrange: 存储层的模式验证失败 (标题过短) 应原样透传给处理层
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo)
	ctx := context.Background()

	schemaErr := fmt.Errorf("%w: title length must be between 10 and 100 characters", domain.ErrInvalidPost)
	mockPostRepo.On("Save", ctx, mock.AnythingOfType("*domain.Post")).Return(schemaErr).Once()

	// Act
	_, err := postService.Create(ctx, 7, "too short", "a summary", strings.Repeat("body ", 12))

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPost)

	mockPostRepo.AssertExpectations(t)
}

// --- 测试读取方法 ---

func TestPostService_GetByID_NotFound(t *testing.T) {
	// Arrange
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo)
	ctx := context.Background()

	mockPostRepo.On("FindByID", ctx, uint(99)).Return(nil, repository.ErrPostNotFound).Once()

	// Act
	_, err := postService.GetByID(ctx, 99)

	// Assert: 格式合法但不存在的 id 是 404 而不是 400
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrPostNotFound)

	mockPostRepo.AssertExpectations(t)
}

func TestPostService_ListAll_EmptyIsNotAnError(t *testing.T) {
	// Arrange
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo)
	ctx := context.Background()

	mockPostRepo.On("FindAll", ctx).Return([]domain.Post{}, nil).Once()

	// Act
	posts, err := postService.ListAll(ctx)

	// Assert: ListAll 对空库返回空列表
	assert.NoError(t, err)
	assert.Empty(t, posts)

	mockPostRepo.AssertExpectations(t)
}

func TestPostService_ListByAuthor_EmptyIsNotFound(t *testing.T) {
	// Arrange
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo)
	ctx := context.Background()

	mockPostRepo.On("FindByAuthor", ctx, uint(7)).Return([]domain.Post{}, nil).Once()

	// Act
	_, err := postService.ListByAuthor(ctx, 7)

	// Assert: 按作者查询的空结果刻意呈现为 404 (保留原有行为)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNoPosts)

	mockPostRepo.AssertExpectations(t)
}

func TestPostService_ListByAuthor_Success(t *testing.T) {
	// Arrange
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo)
	ctx := context.Background()

	stored := []domain.Post{
		{ID: 1, Title: "First post title", AuthorID: 7, Author: domain.User{ID: 7, Username: "alice", Email: "alice@example.com"}},
	}
	mockPostRepo.On("FindByAuthor", ctx, uint(7)).Return(stored, nil).Once()

	// Act
	posts, err := postService.ListByAuthor(ctx, 7)

	// Assert
	assert.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "alice", posts[0].Author.Username)

	mockPostRepo.AssertExpectations(t)
}

// --- 测试 Update / Delete 的作者约束 ---

func TestPostService_Update_ForbiddenForNonAuthor(t *testing.T) {
	// Arrange: 文章属于用户 1，用户 2 尝试更新
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo)
	ctx := context.Background()

	stored := &domain.Post{ID: 3, Title: "Someone else's post", AuthorID: 1}
	mockPostRepo.On("FindByID", ctx, uint(3)).Return(stored, nil).Once()

	// Act
	_, err := postService.Update(ctx, 3, 2, service.PostUpdate{Title: strPtr("A brand new title")})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrForbidden)
	mockPostRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPostService_Update_PartialByAuthor(t *testing.T) {
	// Arrange
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo)
	ctx := context.Background()

	stored := &domain.Post{
		ID:          3,
		Title:       "Original post title",
		Description: "original summary",
		Content:     strings.Repeat("original ", 8),
		AuthorID:    1,
	}
	mockPostRepo.On("FindByID", ctx, uint(3)).Return(stored, nil).Once()
	mockPostRepo.On("Save", ctx, mock.MatchedBy(func(post *domain.Post) bool {
		// 只有给出的字段被替换，其余保持原值
		assert.Equal(t, "Updated post title", post.Title)
		assert.Equal(t, "original summary", post.Description)
		assert.Equal(t, uint(1), post.AuthorID, "作者在更新中不可变")
		return true
	})).Return(nil).Once()

	// Act
	updated, err := postService.Update(ctx, 3, 1, service.PostUpdate{Title: strPtr("Updated post title")})

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Updated post title", updated.Title)

	mockPostRepo.AssertExpectations(t)
}

func TestPostService_Delete_ForbiddenForNonAuthor(t *testing.T) {
	// Arrange
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo)
	ctx := context.Background()

	stored := &domain.Post{ID: 3, Title: "Someone else's post", AuthorID: 1}
	mockPostRepo.On("FindByID", ctx, uint(3)).Return(stored, nil).Once()

	// Act
	_, err := postService.Delete(ctx, 3, 2)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrForbidden)
	mockPostRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPostService_Delete_ReturnsSnapshot(t *testing.T) {
	// Arrange
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo)
	ctx := context.Background()

	stored := &domain.Post{ID: 3, Title: "A post to be deleted", AuthorID: 1}
	mockPostRepo.On("FindByID", ctx, uint(3)).Return(stored, nil).Once()
	mockPostRepo.On("Delete", ctx, stored).Return(nil).Once()

	// Act
	snapshot, err := postService.Delete(ctx, 3, 1)

	// Assert: 删除成功时返回被删除记录的快照
	assert.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, uint(3), snapshot.ID)
	assert.Equal(t, "A post to be deleted", snapshot.Title)

	mockPostRepo.AssertExpectations(t)
}

func TestPostService_Delete_NotFound(t *testing.T) {
	// Arrange
	mockPostRepo := new(mocks.PostRepository)
	postService := service.NewPostService(mockPostRepo)
	ctx := context.Background()

	mockPostRepo.On("FindByID", ctx, uint(99)).Return(nil, repository.ErrPostNotFound).Once()

	// Act
	_, err := postService.Delete(ctx, 99, 1)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrPostNotFound)
	mockPostRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
