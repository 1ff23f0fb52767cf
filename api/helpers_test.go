package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/logger"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/repository"
	"fintrack/service"
	"fintrack/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	store     *repository.Store
	allocator *service.Allocator
	auth      *service.AuthService
	tokens    *middleware.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testutil.TestConfig()
	store := repository.NewStore(testutil.NewDB(t))
	allocator := service.NewAllocator(cfg.Budget, logger.Discard())
	tokens := middleware.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireTime)
	return &testEnv{
		store:     store,
		allocator: allocator,
		auth:      service.NewAuthService(store, tokens, allocator, logger.Discard()),
		tokens:    tokens,
	}
}

// seedUser 直接写库创建用户，不分配预算
func (e *testEnv) seedUser(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "tester", Email: email, Password: "x"}
	require.NoError(t, e.store.Users.Create(t.Context(), u))
	return u
}

func setUserIDMiddleware(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var resp []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}
