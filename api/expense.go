package api

import (
	"strings"

	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	expenses ledger[models.Expense]
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler(expenses ledger[models.Expense]) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// CreateExpenseRequest 创建消费记录请求
type CreateExpenseRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0" example:"99.99"`
	Category string  `json:"category" binding:"required,max=50" example:"Food"`
	Date     string  `json:"date" example:"2024-01-15"`
}

// UpdateExpenseRequest 更新消费记录请求，未提供的字段保持不变
type UpdateExpenseRequest struct {
	Amount   *float64 `json:"amount" binding:"omitempty,gt=0" example:"99.99"`
	Category *string  `json:"category" binding:"omitempty,max=50" example:"Food"`
	Date     *string  `json:"date" example:"2024-01-15"`
}

// ExpenseCreatedResponse 创建消费记录响应
type ExpenseCreatedResponse struct {
	ExpenseID string `json:"expense_id"`
	Message   string `json:"message" example:"Expense added successfully"`
}

// List 获取消费记录列表
// @Summary 获取消费记录列表
// @Description 按创建时间升序返回当前用户的全部消费记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Expense "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	items, err := h.expenses.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description date 可为 RFC3339 或 YYYY-MM-DD，缺省为当前时间
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "消费记录信息"
// @Success 201 {object} ExpenseCreatedResponse "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		ValidationFailed(c, map[string]string{"category": "required"})
		return
	}
	date, ok := parseTimestamp(req.Date)
	if !ok {
		ValidationFailed(c, map[string]string{"date": "datetime"})
		return
	}

	expense := &models.Expense{
		UserID:   middleware.GetCurrentUserID(c),
		Amount:   req.Amount,
		Category: category,
		Date:     date,
	}
	if err := h.expenses.Create(c.Request.Context(), expense); err != nil {
		RespondError(c, err)
		return
	}

	Created(c, ExpenseCreatedResponse{ExpenseID: expense.ID, Message: "Expense added successfully"})
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "消费记录ID"
// @Param request body UpdateExpenseRequest true "更新字段"
// @Success 200 {object} MessageResponse "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := validID(c)
	if !ok {
		NotFound(c, "Expense not found")
		return
	}

	var req UpdateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	fields := make(map[string]interface{})
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			ValidationFailed(c, map[string]string{"category": "required"})
			return
		}
		fields["category"] = category
	}
	if req.Date != nil {
		// 更新时空日期视为无效
		date, ok := parseTimestamp(*req.Date)
		if !ok || strings.TrimSpace(*req.Date) == "" {
			ValidationFailed(c, map[string]string{"date": "datetime"})
			return
		}
		fields["occurred_at"] = date
	}

	if _, err := h.expenses.Update(c.Request.Context(), middleware.GetCurrentUserID(c), id, fields); err != nil {
		respondNotFoundAs(c, err, "Expense")
		return
	}
	SuccessWithMessage(c, "Expense updated successfully")
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path string true "消费记录ID"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := validID(c)
	if !ok {
		NotFound(c, "Expense not found")
		return
	}
	if err := h.expenses.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		respondNotFoundAs(c, err, "Expense")
		return
	}
	SuccessWithMessage(c, "Expense deleted successfully")
}
