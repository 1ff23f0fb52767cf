package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserIDKey 上下文中保存当前用户 ID 的键
const ContextUserIDKey = "userID"

var (
	// ErrTokenInvalid 签名错误或格式错误
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired 令牌已过期
	ErrTokenExpired = errors.New("token has expired")
)

// Claims JWT 载荷
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenManager 签发与校验 HS256 令牌
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager 创建令牌管理器
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken 为用户签发令牌
func (m *TokenManager) GenerateToken(userID string) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken 解析令牌，过期返回 ErrTokenExpired，其它失败返回 ErrTokenInvalid
func (m *TokenManager) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Authenticate 校验令牌并返回用户 ID
func (m *TokenManager) Authenticate(tokenString string) (string, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// TokenVerifier 将 Bearer 令牌解析为用户 ID
type TokenVerifier interface {
	Authenticate(token string) (string, error)
}

// JWTAuth JWT 认证中间件，校验通过后将用户 ID 写入上下文
func JWTAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "authorization header must be: Bearer <token>")
			return
		}

		userID, err := verifier.Authenticate(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				abortUnauthorized(c, "token has expired")
				return
			}
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// GetCurrentUserID 获取当前用户 ID
func GetCurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}
