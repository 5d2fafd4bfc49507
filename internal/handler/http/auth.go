// Package http 封装了对外 REST 接口的 Gin 处理逻辑。
package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog-platform/internal/service"
)

// AuthHandler 封装了与用户认证相关的 HTTP 处理逻辑
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest 定义注册请求的结构体
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"omitempty,max=50"`
	LastName  string `json:"lastName" binding:"omitempty,max=50"`
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	// 1. 绑定并验证输入 JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Register: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Please input all details")
		return
	}

	// 2. 调用 Service 层处理注册逻辑
	user, token, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		logrus.WithFields(logrus.Fields{"username": req.Username, "email": req.Email}).
			WithError(err).Warn("Handler.Register: registration failed")
		HandleServiceError(c, err)
		return
	}

	// 3. 注册成功响应，注册即登录
	logrus.WithField("user_id", user.ID).Info("Handler.Register: user registered successfully")
	SuccessResponse(c, http.StatusCreated, gin.H{
		"message":  fmt.Sprintf("user %s created successfully", user.Username),
		"userId":   user.ID,
		"username": user.Username,
		"email":    user.Email,
		"token":    token,
	})
}

// LoginRequest 定义登录请求的结构体
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 处理用户登录请求
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Login: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: email and password required")
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logrus.WithField("email", req.Email).WithError(err).Warn("Handler.Login: login failed")
		HandleServiceError(c, err)
		return
	}

	logrus.WithField("user_id", user.ID).Info("Handler.Login: user logged in successfully")
	SuccessResponse(c, http.StatusOK, gin.H{
		"message": "Login successful",
		"userId":  user.ID,
		"email":   user.Email,
		"token":   token,
	})
}

// Profile 返回当前认证用户的公开信息。
// 用户身份由 Auth 中间件解析并附加到上下文。
func (h *AuthHandler) Profile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{
		"username": user.Username,
		"email":    user.Email,
	})
}
