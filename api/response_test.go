package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"字段错误", &service.FieldError{Field: "limit", Reason: "must be non-negative"}, http.StatusBadRequest, "validation failed"},
		{"凭证错误", service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"令牌过期", service.ErrExpiredToken, http.StatusUnauthorized, "token has expired"},
		{"令牌无效", service.ErrInvalidToken, http.StatusUnauthorized, "invalid token"},
		{"记录不存在", fmt.Errorf("load: %w", service.ErrNotFound), http.StatusNotFound, "record not found"},
		{"邮箱冲突", service.ErrConflict, http.StatusConflict, "email already registered"},
		{"未知错误", errors.New("dial tcp: refused"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			RespondError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.message, decodeMap(t, w)["message"])
			if tt.code == http.StatusInternalServerError {
				assert.Len(t, c.Errors, 1)
				assert.NotContains(t, w.Body.String(), "refused")
			}
		})
	}
}

func TestRespondNotFoundAs(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondNotFoundAs(c, service.ErrNotFound, "Goal")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Goal not found", decodeMap(t, w)["message"])
}
