package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"ledger/config"
	"ledger/database"
	"ledger/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

// setUserMiddleware 测试用：跳过 JWT 直接注入登录用户
func setUserMiddleware(userID uint, username string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("username", username)
		c.Next()
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
}

func TestAuthHandler_Register(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	defer func() { config.GlobalConfig = nil }()

	// 检查用户名不存在：SELECT 返回无记录
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("newuser").
		WillReturnRows(sqlmock.NewRows([]string{}))

	// GORM Create 使用事务
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(cfg)
	router.POST("/register", h.Register)

	body := `{"username":"newuser","password":"password123","email":"test@example.com"}`
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(200), resp["code"])
	assert.Equal(t, "注册成功", resp["message"])
	// 新用户默认锁定，需管理员解锁
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "locked", data["status"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_UsernameExists(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("existinguser").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "email", "is_admin", "status", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, "existinguser", "hash", "e@x.com", false, "locked", time.Now(), time.Now(), nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(cfg)
	router.POST("/register", h.Register)

	body := `{"username":"existinguser","password":"password123"}`
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "用户名已存在", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	defer func() { config.GlobalConfig = nil }()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("bookkeeper", "bookkeeper").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "email", "is_admin", "status", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, "bookkeeper", string(hashed), "b@x.com", true, "active", time.Now(), time.Now(), nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(cfg)
	router.POST("/login", h.Login)

	body := `{"username":"bookkeeper","password":"password123"}`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_LockedUser(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("locked_user", "locked_user").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "email", "is_admin", "status", "created_at", "updated_at", "deleted_at"}).
			AddRow(2, "locked_user", string(hashed), "", false, "locked", time.Now(), time.Now(), nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(cfg)
	router.POST("/login", h.Login)

	body := `{"username":"locked_user","password":"password123"}`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 403, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "锁定")
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("rightpass"), bcrypt.DefaultCost)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "email", "is_admin", "status", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, "bookkeeper", string(hashed), "", false, "active", time.Now(), time.Now(), nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(cfg)
	router.POST("/login", h.Login)

	body := `{"username":"bookkeeper","password":"wrongpass"}`
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
}
