package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blog-platform/internal/domain"
	"blog-platform/internal/middleware"
	"blog-platform/internal/repository"
	"blog-platform/internal/repository/mocks"
)

const testSecret = "middleware-test-secret"

// signToken 用给定密钥和过期时间签发测试 token。
func signToken(t *testing.T, secret string, userID uint, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(expiresIn).Unix(),
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// setupRouter 构造挂载了 Auth 中间件的测试路由。
// 探针 handler 会把中间件附加的用户回显出来。
func setupRouter(userRepo repository.UserRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", middleware.Auth(testSecret, userRepo), func(c *gin.Context) {
		userAny, exists := c.Get(middleware.ContextUserKey)
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "user missing from context"})
			return
		}
		user := userAny.(*domain.User)
		c.JSON(http.StatusOK, gin.H{"username": user.Username, "password": user.Password})
	})
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	router := setupRouter(mockUserRepo)

	w := doRequest(router, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockUserRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuth_NotBearerScheme(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	router := setupRouter(mockUserRepo)

	w := doRequest(router, "Basic dXNlcjpwYXNz")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_GarbageToken(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	router := setupRouter(mockUserRepo)

	w := doRequest(router, "Bearer not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_WrongSignature(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	router := setupRouter(mockUserRepo)

	// 用别的密钥签发，签名校验必须失败
	token := signToken(t, "some-other-secret", 1, time.Hour)
	w := doRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	router := setupRouter(mockUserRepo)

	// exp 在过去，签名本身有效
	token := signToken(t, testSecret, 1, -time.Minute)
	w := doRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// 过期 token 不应触发用户查询
	mockUserRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuth_ValidTokenButUserDeleted(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	// token 有效但用户记录已不存在
	mockUserRepo.On("FindByID", mock.Anything, uint(1)).
		Return(nil, repository.ErrUserNotFound).Once()
	router := setupRouter(mockUserRepo)

	token := signToken(t, testSecret, 1, time.Hour)
	w := doRequest(router, "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "user not found")
	mockUserRepo.AssertExpectations(t)
}

func TestAuth_ValidTokenAttachesUser(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	userInDb := &domain.User{ID: 1, Username: "alice", Email: "alice@example.com", Password: "someHash"}
	mockUserRepo.On("FindByID", mock.Anything, uint(1)).Return(userInDb, nil).Once()
	router := setupRouter(mockUserRepo)

	token := signToken(t, testSecret, 1, time.Hour)
	w := doRequest(router, "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	// 附加到上下文的用户不携带密码哈希
	assert.Contains(t, w.Body.String(), `"password":""`)
	mockUserRepo.AssertExpectations(t)
}
