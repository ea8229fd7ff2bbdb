package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ledger/config"
	"ledger/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initJWTTestConfig() {
	config.GlobalConfig = &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-jwt-secret-key"},
	}
}

func TestGenerateToken_UserRoundTrip(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	InitJWT(config.GlobalConfig)

	// 记账员和管理员的 token 都只携带 id 和用户名，权限在落库的用户记录上
	users := []models.User{
		{ID: 2, Username: "bookkeeper", IsAdmin: false},
		{ID: 1, Username: "admin", IsAdmin: true},
	}
	for _, u := range users {
		token, err := GenerateToken(u.ID, u.Username, 24*time.Hour)
		require.NoError(t, err)
		assert.Greater(t, len(token), 20)

		claims, err := ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.UserID)
		assert.Equal(t, u.Username, claims.Username)
		assert.Equal(t, "ledger", claims.Issuer)
	}
}

func TestParseToken_Invalid(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	InitJWT(config.GlobalConfig)

	// 空字符串
	_, err := ParseToken("")
	assert.Error(t, err)

	// 无效格式
	_, err = ParseToken("not.a.valid.jwt")
	assert.Error(t, err)
	_, err = ParseToken("eyJhbGciOiJmb29iIn0.xxxx.yyyy")
	assert.Error(t, err)

	// 已过期
	expired, err := GenerateToken(2, "bookkeeper", -time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.Error(t, err)
}

func TestJWTAuth(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	InitJWT(config.GlobalConfig)
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(JWTAuth())
	router.GET("/ledger", func(c *gin.Context) {
		c.String(200, "%d:%s", GetCurrentUserID(c), GetCurrentUsername(c))
	})

	// 无 token
	req := httptest.NewRequest("GET", "/ledger", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "401")

	// 格式错误（非 Bearer）
	req2 := httptest.NewRequest("GET", "/ledger", nil)
	req2.Header.Set("Authorization", "Basic xyz")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)

	// 格式错误（仅 Bearer 无 token）
	req3 := httptest.NewRequest("GET", "/ledger", nil)
	req3.Header.Set("Authorization", "Bearer ")
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req3)
	assert.Equal(t, http.StatusUnauthorized, w3.Code)

	// 有效 token：用户 id 和用户名注入上下文供记账接口使用
	token, _ := GenerateToken(2, "bookkeeper", time.Hour)
	req4 := httptest.NewRequest("GET", "/ledger", nil)
	req4.Header.Set("Authorization", "Bearer "+token)
	w4 := httptest.NewRecorder()
	router.ServeHTTP(w4, req4)
	assert.Equal(t, 200, w4.Code)
	assert.Equal(t, "2:bookkeeper", w4.Body.String())
}

func TestGetCurrentUser_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uint(0), GetCurrentUserID(c))
	assert.Equal(t, "", GetCurrentUsername(c))

	c.Set("userID", uint(99))
	c.Set("username", "bookkeeper")
	assert.Equal(t, uint(99), GetCurrentUserID(c))
	assert.Equal(t, "bookkeeper", GetCurrentUsername(c))
}
