package router

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/config"
	"fintrack/logger"
	"fintrack/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type client struct {
	t     *testing.T
	r     *gin.Engine
	token string
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	return w
}

func (c *client) decode(w *httptest.ResponseRecorder, v interface{}) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type budgetRow struct {
	ID               string  `json:"id"`
	Category         string  `json:"category"`
	Limit            float64 `json:"limit"`
	IncomePercentage float64 `json:"income_percentage"`
	Spent            float64 `json:"spent"`
	Remaining        float64 `json:"remaining"`
}

func newTestRouter(t *testing.T, mode string) *gin.Engine {
	cfg := testutil.TestConfig()
	cfg.Budget.AllocationMode = mode
	return SetupRouter(cfg, Dependencies{DB: testutil.NewDB(t), Logger: logger.Discard()})
}

// signUp 注册并登录，返回带令牌的客户端
func signUp(t *testing.T, r *gin.Engine, email string, income float64) *client {
	c := &client{t: t, r: r}
	w := c.do(http.MethodPost, "/api/auth/register", map[string]interface{}{
		"name": "Ann", "email": email, "password": "secret1", "income": income,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		AccessToken string `json:"access_token"`
	}
	c.decode(w, &login)
	c.token = login.AccessToken
	return c
}

func (c *client) budgets() []budgetRow {
	c.t.Helper()
	w := c.do(http.MethodGet, "/api/budgets", nil)
	require.Equal(c.t, http.StatusOK, w.Code)
	var rows []budgetRow
	c.decode(w, &rows)
	return rows
}

func sumLimits(rows []budgetRow) float64 {
	total := 0.0
	for _, b := range rows {
		total += b.Limit
	}
	return math.Round(total*100) / 100
}

func TestEndToEnd_Additive(t *testing.T) {
	r := newTestRouter(t, config.AllocationAdditive)
	c := signUp(t, r, "ann@example.com", 5000)

	// 默认类别百分比之和为 100
	w := c.do(http.MethodGet, "/api/budgets/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cats []struct {
		Name       string  `json:"name"`
		Percentage float64 `json:"percentage"`
	}
	c.decode(w, &cats)
	require.Len(t, cats, 8)
	pct := 0.0
	for _, cat := range cats {
		pct += cat.Percentage
	}
	assert.InDelta(t, 100.0, pct, 1e-9)

	rows := c.budgets()
	require.Len(t, rows, 8)
	assert.Equal(t, 5000.0, sumLimits(rows))

	w = c.do(http.MethodPost, "/api/expenses", map[string]interface{}{"amount": 100, "category": "Food"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	first := c.do(http.MethodGet, "/api/budgets", nil)
	second := c.do(http.MethodGet, "/api/budgets", nil)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	for _, b := range c.budgets() {
		if b.Category == "Food" {
			assert.Equal(t, 100.0, b.Spent)
			assert.Equal(t, 650.0, b.Remaining)
		} else {
			assert.Equal(t, 0.0, b.Spent)
			assert.Equal(t, b.Limit, b.Remaining)
		}
	}

	w = c.do(http.MethodPut, "/api/user/income", map[string]interface{}{"income": 6000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rows = c.budgets()
	assert.Len(t, rows, 16)
	assert.Equal(t, 11000.0, sumLimits(rows))
}

func TestEndToEnd_Upsert(t *testing.T) {
	r := newTestRouter(t, config.AllocationUpsert)
	c := signUp(t, r, "ann@example.com", 5000)

	w := c.do(http.MethodPut, "/api/user/income", map[string]interface{}{"income": 6000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	rows := c.budgets()
	require.Len(t, rows, 8)
	assert.Equal(t, 6000.0, sumLimits(rows))
	for _, b := range rows {
		if b.Category == "Food" {
			assert.Equal(t, 900.0, b.Limit)
		}
	}
}

func TestOwnershipIsolation(t *testing.T) {
	r := newTestRouter(t, config.AllocationAdditive)
	ann := signUp(t, r, "ann@example.com", 1000)
	bob := signUp(t, r, "bob@example.com", 0)

	w := ann.do(http.MethodPost, "/api/expenses", map[string]interface{}{"amount": 10, "category": "Food"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ExpenseID string `json:"expense_id"`
	}
	ann.decode(w, &created)

	budgetID := ann.budgets()[0].ID

	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodPut, "/api/expenses/"+created.ExpenseID, map[string]interface{}{"amount": 1}).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodDelete, "/api/expenses/"+created.ExpenseID, nil).Code)
	assert.Equal(t, http.StatusNotFound, bob.do(http.MethodDelete, "/api/budgets/"+budgetID, nil).Code)
	assert.Empty(t, bob.budgets())

	w = bob.do(http.MethodGet, "/api/expenses", nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Len(t, ann.budgets(), 8)
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(t, config.AllocationAdditive)
	c := &client{t: t, r: r}

	for _, path := range []string{"/api/user", "/api/expenses", "/api/budgets", "/api/insights/predictions"} {
		w := c.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	c.token = "not-a-token"
	w := c.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDuplicateRegistration(t *testing.T) {
	r := newTestRouter(t, config.AllocationAdditive)
	signUp(t, r, "ann@example.com", 0)

	c := &client{t: t, r: r}
	w := c.do(http.MethodPost, "/api/auth/register", map[string]interface{}{
		"name": "Again", "email": "ann@example.com", "password": "secret2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHealthAndCORS(t *testing.T) {
	r := newTestRouter(t, config.AllocationAdditive)
	c := &client{t: t, r: r}

	w := c.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = c.do(http.MethodOptions, "/api/expenses", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
