package http

import "github.com/gin-gonic/gin"

// ErrorResponse 以统一的 {"message": ...} 形式返回错误。
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// SuccessResponse 返回成功响应体。
func SuccessResponse(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}
