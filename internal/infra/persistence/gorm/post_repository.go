package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"blog-platform/internal/domain"
	"blog-platform/internal/repository"
)

// GormPostRepository 是 PostRepository 接口的 GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository 创建 GormPostRepository 实例
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	if db == nil {
		panic("database connection cannot be nil for GormPostRepository")
	}
	return &GormPostRepository{db: db}
}

// Save 实现保存文章（创建或更新）。
// 保存前运行模式验证，使长度等约束由存储层统一保证，
// 与处理层的必填检查无关。
func (r *GormPostRepository) Save(ctx context.Context, post *domain.Post) error {
	if err := post.Validate(); err != nil {
		// 验证错误包装了 domain.ErrInvalidPost，原样返回供上层分类
		return err
	}
	// Omit("Author") 避免 GORM 级联写入作者关联；AuthorID 列本身照常保存
	err := r.db.WithContext(ctx).Omit("Author").Save(post).Error
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save post (id: %d): %w", post.ID, err)
	}
	return nil
}

// FindByID 实现根据文章 ID 查找文章，作者信息一并预加载。
func (r *GormPostRepository) FindByID(ctx context.Context, id uint) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPostNotFound
		}
		return nil, fmt.Errorf("gorm: find post by id %d: %w", id, err)
	}
	return &post, nil
}

// FindAll 实现查询全部文章，按创建时间倒序。
func (r *GormPostRepository) FindAll(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	err := r.db.WithContext(ctx).Preload("Author").Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find all posts: %w", err)
	}
	return posts, nil
}

// FindByAuthor 实现查询指定作者的全部文章。
// 没有匹配记录时返回空切片而不是错误，由服务层决定语义。
func (r *GormPostRepository) FindByAuthor(ctx context.Context, authorID uint) ([]domain.Post, error) {
	var posts []domain.Post
	err := r.db.WithContext(ctx).Preload("Author").Where("author_id = ?", authorID).Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find posts by author %d: %w", authorID, err)
	}
	return posts, nil
}

// Delete 实现删除文章 (硬删除，模型未启用软删除字段)。
func (r *GormPostRepository) Delete(ctx context.Context, post *domain.Post) error {
	err := r.db.WithContext(ctx).Delete(&domain.Post{}, post.ID).Error
	if err != nil {
		return fmt.Errorf("gorm: delete post (id: %d): %w", post.ID, err)
	}
	return nil
}
