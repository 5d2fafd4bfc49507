package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog-platform/internal/domain"
	"blog-platform/internal/middleware"
	"blog-platform/internal/service"
)

// currentUser 从 Gin 上下文中取出 Auth 中间件附加的用户。
// 取不到说明路由漏挂了中间件，直接终止为 401。
func currentUser(c *gin.Context) (*domain.User, bool) {
	userAny, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		logrus.Warn("Handler: user not found in context, middleware missing or failed?")
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return nil, false
	}
	user, ok := userAny.(*domain.User)
	if !ok {
		logrus.Error("Handler: user in context has unexpected type")
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error processing user")
		return nil, false
	}
	return user, true
}

// parseIDParam 解析路径中的数字标识符。
// 合法标识符是正的十进制整数；其余情况在触达存储层之前就拒绝。
func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, service.ErrInvalidID
	}
	return uint(id), nil
}
