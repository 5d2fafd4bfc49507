// Package middleware 提供 Gin 请求中间件 (JWT 认证, 速率限制)。
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"blog-platform/internal/repository"
)

// Gin 上下文中由 Auth 中间件写入的键。
const (
	ContextUserKey   = "user"    // *domain.User，密码字段已清空
	ContextUserIDKey = "user_id" // uint
)

// ErrMissingAuthHeader 表示请求缺少 Authorization 头
var ErrMissingAuthHeader = errors.New("missing Authorization header")

// Auth 返回一个 Gin 中间件，用于验证 JWT token 并解析出当前用户。
// 验证通过后将用户对象 (密码已清除) 和用户 ID 写入上下文；
// 任何失败都终止为 401 响应，后续处理程序不会执行。
// jwtSecret: 用于验证签名的密钥，必须提供。
// userRepo: 用于确认 token 指向的用户仍然存在。
func Auth(jwtSecret string, userRepo repository.UserRepository) gin.HandlerFunc {
	// 在创建中间件时就进行检查，避免运行时 panic
	if jwtSecret == "" {
		panic("JWT secret cannot be empty for Auth middleware")
	}
	if userRepo == nil {
		panic("UserRepository cannot be nil for Auth middleware")
	}

	return func(c *gin.Context) {
		// 1. 从请求头提取 Token
		tokenStr, err := extractToken(c)
		if err != nil {
			if errors.Is(err, ErrMissingAuthHeader) {
				logrus.Warn("Auth middleware: missing Authorization header")
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			} else {
				logrus.WithError(err).Warn("Auth middleware: malformed Authorization header")
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, invalid token format"})
			}
			c.Abort()
			return
		}

		// 2. 验证 Token
		claims, err := validateToken(tokenStr, jwtSecret)
		if err != nil {
			logCtx := logrus.WithError(err)
			logCtx.Warn("Auth middleware: invalid token")

			// 根据 JWT 错误类型记录更具体的原因，但对客户端返回通用错误
			var validationError *jwt.ValidationError
			if errors.As(err, &validationError) {
				if validationError.Errors&jwt.ValidationErrorExpired != 0 {
					logCtx.Warn("Reason: token is expired")
				}
				if validationError.Errors&jwt.ValidationErrorSignatureInvalid != 0 {
					logCtx.Warn("Reason: token signature is invalid")
				}
			}
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			c.Abort()
			return
		}

		// 3. 从 Claims 中提取用户 ID
		idClaim, ok := claims["id"]
		if !ok {
			logrus.Warn("Auth middleware: 'id' claim missing in token")
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			c.Abort()
			return
		}
		// JWT 数字默认为 float64，需要安全转换为 uint
		idFloat, ok := idClaim.(float64)
		if !ok || idFloat <= 0 || idFloat != float64(uint(idFloat)) {
			logrus.Warnf("Auth middleware: 'id' claim is not a valid positive integer: %v", idClaim)
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			c.Abort()
			return
		}
		userID := uint(idFloat)

		// 4. 确认用户仍然存在，并把用户对象附加到上下文。
		// token 在签发后用户可能已被删除，此时同样视为未认证。
		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				logrus.WithField("user_id", userID).Warn("Auth middleware: token user no longer exists")
				c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, user not found"})
			} else {
				logrus.WithError(err).Error("Auth middleware: database error resolving user")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not resolve user"})
			}
			c.Abort()
			return
		}

		user.Password = "" // 下游永远看不到密码哈希
		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, userID)
		logrus.WithField("user_id", userID).Debug("Auth middleware: user authenticated via JWT")

		c.Next()
	}
}

// extractToken 从 Gin 上下文中提取 Bearer Token
func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}
	// Authorization header 格式应为 "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	// 使用 EqualFold 忽略 "Bearer" 的大小写
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", jwt.ErrTokenMalformed
	}
	return parts[1], nil
}

// validateToken 解析并验证 JWT token 字符串
func validateToken(tokenStr string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法是否为 HMAC (HS256)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		// 解析或验证过程中发生错误 (格式错误、签名无效、过期等)
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token or claims type")
}
