package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(LoginRateLimit(2, 200*time.Millisecond))
	router.POST("/login", func(c *gin.Context) {
		c.String(200, "ok")
	})

	doReq := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 同一 IP 连续 3 次，第 3 次应返回 429
	assert.Equal(t, 200, doReq("192.168.1.1").Code)
	assert.Equal(t, 200, doReq("192.168.1.1").Code)
	w3 := doReq("192.168.1.1")
	assert.Equal(t, http.StatusTooManyRequests, w3.Code)
	assert.Contains(t, w3.Body.String(), "too many login attempts")

	// 不同 IP 互不影响
	assert.Equal(t, 200, doReq("192.168.1.2").Code)

	// 窗口过后恢复
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 200, doReq("192.168.1.1").Code)
}

func TestSlidingWindowSweep(t *testing.T) {
	s := newSlidingWindow(1, time.Second)
	now := time.Now()

	assert.True(t, s.allow("a", now))
	assert.False(t, s.allow("a", now.Add(500*time.Millisecond)))

	s.sweep(now.Add(2 * time.Second))
	assert.Empty(t, s.hits)
	assert.True(t, s.allow("a", now.Add(2*time.Second)))
}
