package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"blog-platform/internal/domain"
	"blog-platform/internal/repository"
)

// PostService 负责博客文章的增删改查业务逻辑，
// 并在修改和删除时强制执行 "仅作者可变更" 的约束。
type PostService struct {
	postRepo repository.PostRepository
}

// NewPostService 创建 PostService 实例。
func NewPostService(postRepo repository.PostRepository) *PostService {
	if postRepo == nil {
		panic("PostRepository cannot be nil for PostService")
	}
	return &PostService{postRepo: postRepo}
}

// PostUpdate 描述一次部分更新，nil 字段保持原值。
type PostUpdate struct {
	Title       *string
	Description *string
	Content     *string
}

// Create 以 authorID 为作者创建一篇文章。
// 作者身份始终来自认证上下文，调用方无法指定他人。
// 必填字段缺失返回 ErrValidation；长度约束由存储层验证，
// 违反时返回包装了 domain.ErrInvalidPost 的错误。
func (s *PostService) Create(ctx context.Context, authorID uint, title, description, content string) (*domain.Post, error) {
	logCtx := logrus.WithField("author_id", authorID)

	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" || strings.TrimSpace(content) == "" {
		return nil, ErrValidation
	}

	post := &domain.Post{
		Title:       title,
		Description: description,
		Content:     content,
		AuthorID:    authorID,
	}
	if err := s.postRepo.Save(ctx, post); err != nil {
		if errors.Is(err, domain.ErrInvalidPost) {
			logCtx.WithError(err).Warn("Create: post rejected by schema validation")
			return nil, err
		}
		logCtx.WithError(err).Error("Create: database error saving post")
		return nil, ErrInternalServer
	}

	logCtx.WithField("post_id", post.ID).Info("Post created successfully")
	return post, nil
}

// ListAll 返回全部文章，作者已解析。没有文章时返回空切片。
func (s *PostService) ListAll(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.postRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("ListAll: database error fetching posts")
		return nil, ErrInternalServer
	}
	return posts, nil
}

// GetByID 返回指定文章。文章不存在返回 ErrPostNotFound。
// 标识符语法检查在处理层完成，非法 id 不会到达这里。
func (s *PostService) GetByID(ctx context.Context, id uint) (*domain.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			logrus.WithField("post_id", id).Warn("GetByID: post not found")
			return nil, ErrPostNotFound
		}
		logrus.WithError(err).WithField("post_id", id).Error("GetByID: database error")
		return nil, ErrInternalServer
	}
	return post, nil
}

// ListByAuthor 返回指定作者的全部文章。
// 没有任何文章时返回 ErrNoPosts (呈现为 404)，
// 与 ListAll 的空列表语义不一致，刻意保留原有行为。
func (s *PostService) ListByAuthor(ctx context.Context, authorID uint) ([]domain.Post, error) {
	posts, err := s.postRepo.FindByAuthor(ctx, authorID)
	if err != nil {
		logrus.WithError(err).WithField("author_id", authorID).Error("ListByAuthor: database error")
		return nil, ErrInternalServer
	}
	if len(posts) == 0 {
		logrus.WithField("author_id", authorID).Warn("ListByAuthor: no posts for author")
		return nil, ErrNoPosts
	}
	return posts, nil
}

// Update 对文章应用部分更新并返回更新后的记录 (作者已解析)。
// 仅文章作者可更新，其他用户返回 ErrForbidden；
// 更新后的字段会重新经过存储层的模式验证。
func (s *PostService) Update(ctx context.Context, postID, callerID uint, upd PostUpdate) (*domain.Post, error) {
	logCtx := logrus.WithFields(logrus.Fields{"post_id": postID, "user_id": callerID})

	post, err := s.findOwnedPost(ctx, postID, callerID, logCtx)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Description != nil {
		post.Description = *upd.Description
	}
	if upd.Content != nil {
		post.Content = *upd.Content
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		if errors.Is(err, domain.ErrInvalidPost) {
			logCtx.WithError(err).Warn("Update: post rejected by schema validation")
			return nil, err
		}
		logCtx.WithError(err).Error("Update: database error saving post")
		return nil, ErrInternalServer
	}

	logCtx.Info("Post updated successfully")
	return post, nil
}

// Delete 删除文章并返回被删除记录的快照。
// 仅文章作者可删除。
func (s *PostService) Delete(ctx context.Context, postID, callerID uint) (*domain.Post, error) {
	logCtx := logrus.WithFields(logrus.Fields{"post_id": postID, "user_id": callerID})

	post, err := s.findOwnedPost(ctx, postID, callerID, logCtx)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.Delete(ctx, post); err != nil {
		logCtx.WithError(err).Error("Delete: database error deleting post")
		return nil, ErrInternalServer
	}

	logCtx.Info("Post deleted successfully")
	return post, nil
}

// findOwnedPost 查找文章并校验调用者是否为作者。
func (s *PostService) findOwnedPost(ctx context.Context, postID, callerID uint, logCtx *logrus.Entry) (*domain.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			logCtx.Warn("Post not found")
			return nil, ErrPostNotFound
		}
		logCtx.WithError(err).Error("Database error finding post")
		return nil, ErrInternalServer
	}
	if post.AuthorID != callerID {
		logCtx.WithField("author_id", post.AuthorID).Warn("Ownership check failed")
		return nil, ErrForbidden
	}
	return post, nil
}
