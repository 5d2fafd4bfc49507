package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// 文章字段的长度约束，与存储层模式保持一致。
const (
	TitleMinLen   = 10
	TitleMaxLen   = 100
	ContentMinLen = 50
)

// ErrInvalidPost 表示文章数据违反了存储层的模式约束。
// 具体原因通过 fmt.Errorf("%w: ...") 包装在错误信息中。
var ErrInvalidPost = errors.New("invalid post data")

// Post 表示一篇博客文章。
type Post struct {
	ID          uint      `gorm:"primaryKey"`                     // 文章唯一标识符 (主键)
	Title       string    `gorm:"type:varchar(191);not null"`     // 标题，长度 10-100
	Description string    `gorm:"type:text;not null"`             // 摘要，不能为空
	Content     string    `gorm:"type:text;not null"`             // 正文，至少 50 个字符
	AuthorID    uint      `gorm:"index:idx_author_id;not null"`   // 作者 ID (外键关联到 User.ID)，创建后不可变
	Author      User      `gorm:"foreignKey:AuthorID"`            // 作者关联，查询时按需预加载
	CreatedAt   time.Time `gorm:"autoCreateTime"`                 // 文章创建时间 (GORM 自动填充)
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`                 // 文章最后更新时间 (GORM 自动填充)
}

// Validate 检查文章是否满足存储层的模式约束。
// 仓库实现会在每次插入/更新前调用，相当于数据库模式级别的验证；
// 长度按字符 (rune) 计数而不是字节，避免多字节文本被误判。
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Description) == "" || strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("%w: title, description and content are required", ErrInvalidPost)
	}
	if n := utf8.RuneCountInString(p.Title); n < TitleMinLen || n > TitleMaxLen {
		return fmt.Errorf("%w: title length must be between %d and %d characters", ErrInvalidPost, TitleMinLen, TitleMaxLen)
	}
	if utf8.RuneCountInString(p.Content) < ContentMinLen {
		return fmt.Errorf("%w: content must be at least %d characters", ErrInvalidPost, ContentMinLen)
	}
	if p.AuthorID == 0 {
		return fmt.Errorf("%w: author is required", ErrInvalidPost)
	}
	return nil
}
