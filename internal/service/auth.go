package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"blog-platform/internal/domain"
	"blog-platform/internal/repository"
)

// AuthService 负责用户注册、登录等认证相关的业务逻辑。
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte        // 进程级签名密钥，来自配置
	jwtExpiry time.Duration // JWT 过期时间
}

// NewAuthService 创建 AuthService 实例。
// jwtSecretKey 应从安全配置中获取。
// jwtExpiryHours 定义 token 过期的小时数。
func NewAuthService(userRepo repository.UserRepository, jwtSecretKey string, jwtExpiryHours int) (*AuthService, error) {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if jwtSecretKey == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if jwtExpiryHours <= 0 {
		jwtExpiryHours = 24 // 默认 24 小时
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecretKey),
		jwtExpiry: time.Duration(jwtExpiryHours) * time.Hour,
	}, nil
}

// Register 处理用户注册，成功后直接签发登录 token。
// firstName/lastName 可选。
func (s *AuthService) Register(ctx context.Context, username, email, password, firstName, lastName string) (*domain.User, string, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "email": email})

	// 1. 基本验证 (必填字段去空白后不能为空)
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, "", ErrValidation
	}

	// 2. 预检查邮箱是否已注册。
	// 这只是优化：真正的保证来自 users 表的唯一索引，
	// 并发注册同一邮箱时由 Save 返回的 ErrDuplicateEntry 兜底。
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		logCtx.WithError(err).Error("Register: database error checking existing email")
		return nil, "", ErrInternalServer
	}
	if existing != nil {
		logCtx.Warn("Register: email already registered")
		return nil, "", ErrEmailTaken
	}

	// 3. 哈希密码，明文在此之后不再保留
	hashedPassword, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Register: failed to hash password")
		return nil, "", ErrInternalServer
	}

	// 4. 创建并保存用户
	user := &domain.User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Register: unique constraint violation on save")
			return nil, "", ErrEmailTaken
		}
		logCtx.WithError(err).Error("Register: database error during user creation")
		return nil, "", ErrInternalServer
	}

	// 5. 注册即登录，签发 token
	token, err := s.generateJWT(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Register: failed to generate JWT token")
		return nil, "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	user.Password = "" // 清除密码哈希再返回
	return user, token, nil
}

// Login 处理用户登录。
// 未知邮箱返回 ErrUserNotFound，密码不匹配返回 ErrAuthenticationFailed，
// 两者由处理层分别映射为 404 和 401。
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	logCtx := logrus.WithField("email", email)

	// 1. 根据邮箱查找用户
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Login attempt failed: user not found")
			return nil, "", ErrUserNotFound
		}
		logCtx.WithError(err).Error("Login attempt failed: error finding user")
		return nil, "", ErrInternalServer
	}
	// 防御性检查，以防仓库实现返回 nil, nil
	if user == nil {
		logCtx.Warn("Login attempt failed: repo returned nil user without error")
		return nil, "", ErrUserNotFound
	}

	// 2. 验证密码 (bcrypt 内部使用常数时间比较)
	if !checkPassword(password, user.Password) {
		logCtx.Warn("Login attempt failed: invalid password")
		return nil, "", ErrAuthenticationFailed
	}

	// 3. 生成 JWT Token (不影响之前签发的 token)
	token, err := s.generateJWT(user.ID)
	if err != nil {
		logCtx.WithError(err).Error("Login: failed to generate JWT token")
		return nil, "", ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	user.Password = ""
	return user, token, nil
}

// --- 私有辅助函数 ---

// hashPassword 使用 bcrypt 对密码进行哈希处理
func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// checkPassword 验证提供的密码是否与存储的哈希匹配
func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// generateJWT 为指定用户 ID 生成 JWT Token。
// claims 结构 {id, iat, exp} 是对外约定的 token 载荷格式。
func (s *AuthService) generateJWT(userID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(s.jwtExpiry).Unix(),
		"iat": time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
