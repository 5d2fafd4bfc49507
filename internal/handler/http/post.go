package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog-platform/internal/domain"
	"blog-platform/internal/service"
)

// PostHandler 封装了与博客文章相关的 HTTP 处理逻辑
type PostHandler struct {
	postService *service.PostService
}

// NewPostHandler 创建 PostHandler 实例
func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// AuthorInfo 是响应中对作者的解析结果，只暴露公开字段。
type AuthorInfo struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PostResponse 定义文章在响应中的序列化形式。
type PostResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Author      AuthorInfo `json:"author"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toPostResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		Author:      AuthorInfo{Username: p.Author.Username, Email: p.Author.Email},
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPostResponses(posts []domain.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i]))
	}
	return out
}

// CreatePostRequest 定义创建文章请求的结构体
type CreatePostRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

// Create 处理创建文章请求。作者始终是当前认证用户。
func (h *PostHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	logCtx := logrus.WithField("user_id", user.ID)

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logCtx.WithError(err).Warn("Handler.CreatePost: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "please fill all data")
		return
	}

	post, err := h.postService.Create(c.Request.Context(), user.ID, req.Title, req.Description, req.Content)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.CreatePost: failed to create post")
		HandleServiceError(c, err)
		return
	}

	logCtx.WithField("post_id", post.ID).Info("Handler.CreatePost: post created successfully")
	SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "blog " + post.Title + " created successfully",
		"title":   post.Title,
		"blogId":  post.ID,
		"author":  post.AuthorID,
	})
}

// ListAll 返回全部文章，作者解析为公开字段。
func (h *PostHandler) ListAll(c *gin.Context) {
	posts, err := h.postService.ListAll(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toPostResponses(posts))
}

// GetByID 返回单篇文章。
func (h *PostHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "postId")
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	post, err := h.postService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toPostResponse(post))
}

// OwnPosts 返回当前认证用户自己的全部文章。
// 与 PostsByAuthor 是同一操作，作者 ID 来自上下文而不是路径参数。
func (h *PostHandler) OwnPosts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	h.listByAuthor(c, user.ID)
}

// PostsByAuthor 返回指定作者的全部文章。
func (h *PostHandler) PostsByAuthor(c *gin.Context) {
	authorID, err := parseIDParam(c, "authorId")
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	h.listByAuthor(c, authorID)
}

func (h *PostHandler) listByAuthor(c *gin.Context, authorID uint) {
	posts, err := h.postService.ListByAuthor(c.Request.Context(), authorID)
	if err != nil {
		// 空结果刻意呈现为 404，响应体带空列表方便客户端直接渲染
		if errors.Is(err, service.ErrNoPosts) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error(), "posts": []PostResponse{}})
			return
		}
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toPostResponses(posts))
}

// UpdatePostRequest 定义部分更新请求，缺省字段保持原值。
type UpdatePostRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}

// Update 处理更新文章请求，仅作者可操作。
func (h *PostHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "postId")
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": user.ID, "post_id": id})

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logCtx.WithError(err).Warn("Handler.UpdatePost: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	post, err := h.postService.Update(c.Request.Context(), id, user.ID, service.PostUpdate{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
	})
	if err != nil {
		logCtx.WithError(err).Warn("Handler.UpdatePost: failed to update post")
		HandleServiceError(c, err)
		return
	}

	logCtx.Info("Handler.UpdatePost: post updated successfully")
	SuccessResponse(c, http.StatusOK, gin.H{
		"message": "post updated successfully",
		"post":    toPostResponse(post),
	})
}

// Delete 处理删除文章请求，仅作者可操作，返回被删除记录的快照。
func (h *PostHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "postId")
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": user.ID, "post_id": id})

	post, err := h.postService.Delete(c.Request.Context(), id, user.ID)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.DeletePost: failed to delete post")
		HandleServiceError(c, err)
		return
	}

	logCtx.Info("Handler.DeletePost: post deleted successfully")
	SuccessResponse(c, http.StatusOK, gin.H{
		"message": "post deleted successfully",
		"post":    toPostResponse(post),
	})
}
