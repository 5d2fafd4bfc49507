package repository

import (
	"context"

	"blog-platform/internal/domain"
)

// PostRepository 定义了博客文章的存储和检索操作。
type PostRepository interface {
	// Save 保存文章 (基于 ID 决定插入或更新)。
	// 保存前运行 domain.Post.Validate，违反模式约束时返回包装了
	// domain.ErrInvalidPost 的错误。
	Save(ctx context.Context, post *domain.Post) error

	// FindByID 根据文章 ID 查找文章，并预加载作者信息。
	// 如果文章不存在，返回 ErrPostNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Post, error)

	// FindAll 返回全部文章 (作者已预加载)，没有文章时返回空切片。
	FindAll(ctx context.Context) ([]domain.Post, error)

	// FindByAuthor 返回指定作者的全部文章 (作者已预加载)。
	// 没有匹配文章时返回空切片，由服务层决定如何呈现。
	FindByAuthor(ctx context.Context, authorID uint) ([]domain.Post, error)

	// Delete 删除指定文章 (硬删除)。
	Delete(ctx context.Context, post *domain.Post) error
}
