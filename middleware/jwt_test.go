package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	token, err := m.GenerateToken("user-1")
	require.NoError(t, err)
	assert.Greater(t, len(token), 20)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParseToken_Errors(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	_, err := m.ParseToken("")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.ParseToken("not.a.valid.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// 签名密钥不同
	other := NewTokenManager("another-secret", time.Hour)
	token, _ := other.GenerateToken("user-1")
	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// 过期
	expired := NewTokenManager(testSecret, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _ = expired.GenerateToken("user-1")
	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// 非 HS256 算法
	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"})
	token, _ = none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// 缺少 user_id
	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	token, _ = noUser.SignedString([]byte(testSecret))
	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestJWTAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewTokenManager(testSecret, time.Hour)

	router := gin.New()
	router.Use(JWTAuth(m))
	router.GET("/protected", func(c *gin.Context) {
		c.String(200, "id:%s", GetCurrentUserID(c))
	})

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 无 token
	w := do("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing authorization header")

	// 格式错误（非 Bearer）
	assert.Equal(t, http.StatusUnauthorized, do("Basic xyz").Code)
	// 仅 Bearer 无 token
	assert.Equal(t, http.StatusUnauthorized, do("Bearer ").Code)

	// 无效 token
	w = do("Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")

	// 过期 token
	expired := NewTokenManager(testSecret, time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _ := expired.GenerateToken("user-42")
	w = do("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token has expired")

	// 有效 token
	token, _ = m.GenerateToken("user-42")
	w = do("Bearer " + token)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "id:user-42", w.Body.String())
}

func TestGetCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", GetCurrentUserID(c))

	c.Set(ContextUserIDKey, "user-99")
	assert.Equal(t, "user-99", GetCurrentUserID(c))
}
