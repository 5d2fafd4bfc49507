package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"blog-platform/internal/domain"
)

// MigrateDB 使用传入的 GORM DB 实例执行全部数据库迁移。
// users 表使用自定义 SQL 创建 (TEXT 列与唯一索引长度需要显式控制)，
// 其余通过 AutoMigrate 对齐模型定义。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	if err := migrateUsersTable(db); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}

	if err := migratePostsTable(db); err != nil {
		return fmt.Errorf("failed to migrate posts table: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

// migrateUsersTable 按表是否存在决定创建或对齐 users 表。
func migrateUsersTable(db *gorm.DB) error {
	var count int64
	db.Raw("SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = 'users'").Count(&count)

	if count == 0 {
		return createUsersTable(db)
	}
	// 表已存在时由 AutoMigrate 补齐缺失的列和索引
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to auto-migrate users table: %w", err)
	}
	logrus.Info("Users table schema checked/updated successfully")
	return nil
}

func createUsersTable(db *gorm.DB) error {
	sql := `
	CREATE TABLE users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(191) NOT NULL,
		email VARCHAR(191) NOT NULL,
		password TEXT NOT NULL,
		first_name VARCHAR(191),
		last_name VARCHAR(191),
		created_at DATETIME(3),
		updated_at DATETIME(3),
		UNIQUE INDEX idx_username (username),
		UNIQUE INDEX idx_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create users table: %v", err)
		return fmt.Errorf("failed to create users table: %w", err)
	}
	logrus.Info("Users table created successfully")
	return nil
}

// migratePostsTable 按表是否存在决定创建或对齐 posts 表。
func migratePostsTable(db *gorm.DB) error {
	var count int64
	db.Raw("SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = 'posts'").Count(&count)

	if count == 0 {
		return createPostsTable(db)
	}
	if err := db.AutoMigrate(&domain.Post{}); err != nil {
		return fmt.Errorf("failed to auto-migrate posts table: %w", err)
	}
	logrus.Info("Posts table schema checked/updated successfully")
	return nil
}

func createPostsTable(db *gorm.DB) error {
	sql := `
	CREATE TABLE posts (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(191) NOT NULL,
		description TEXT NOT NULL,
		content TEXT NOT NULL,
		author_id BIGINT UNSIGNED NOT NULL,
		created_at DATETIME(3),
		updated_at DATETIME(3),
		INDEX idx_author_id (author_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create posts table: %v", err)
		return fmt.Errorf("failed to create posts table: %w", err)
	}
	logrus.Info("Posts table created successfully")
	return nil
}
