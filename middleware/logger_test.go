package middleware

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/ok", func(c *gin.Context) {
		c.Set(ContextUserIDKey, "user-1")
		c.Status(200)
	})
	router.GET("/fail", func(c *gin.Context) { c.Status(500) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/ok", nil))
	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "path=/ok")
	assert.Contains(t, out, "user_id=user-1")

	buf.Reset()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/fail", nil))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "status=500")
}
