package api

import (
	"context"
	"strings"

	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

type recurringProcessor interface {
	Process(ctx context.Context, userID string, today models.Date) (int, error)
}

// RecurringExpenseHandler 周期支出处理器
type RecurringExpenseHandler struct {
	items     ledger[models.RecurringExpense]
	processor recurringProcessor
	today     func() models.Date
}

// NewRecurringExpenseHandler 创建周期支出处理器
func NewRecurringExpenseHandler(items ledger[models.RecurringExpense], processor recurringProcessor) *RecurringExpenseHandler {
	return &RecurringExpenseHandler{items: items, processor: processor, today: models.Today}
}

// CreateRecurringExpenseRequest 创建周期支出请求
type CreateRecurringExpenseRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0" example:"15.99"`
	Category  string  `json:"category" binding:"required,max=50" example:"Entertainment"`
	Frequency string  `json:"frequency" binding:"required,max=20" example:"monthly"`
	NextDate  string  `json:"next_date" binding:"required" example:"2024-02-01"`
}

// UpdateRecurringExpenseRequest 更新周期支出请求
type UpdateRecurringExpenseRequest struct {
	Amount    *float64 `json:"amount" binding:"omitempty,gt=0"`
	Category  *string  `json:"category" binding:"omitempty,max=50"`
	Frequency *string  `json:"frequency" binding:"omitempty,max=20"`
	NextDate  *string  `json:"next_date"`
}

// RecurringExpenseCreatedResponse 创建周期支出响应
type RecurringExpenseCreatedResponse struct {
	RecurringExpenseID string `json:"recurring_expense_id"`
	Message            string `json:"message" example:"Recurring expense added successfully"`
}

// ProcessRecurringResponse 补记结果
type ProcessRecurringResponse struct {
	Created int `json:"created" example:"2"`
}

// List 获取周期支出列表
// @Summary 获取周期支出列表
// @Tags 周期支出
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.RecurringExpense "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/recurring-expenses [get]
func (h *RecurringExpenseHandler) List(c *gin.Context) {
	items, err := h.items.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// Create 创建周期支出
// @Summary 创建周期支出
// @Description frequency 支持 daily/weekly/monthly/yearly，其它取值保存但不会被补记
// @Tags 周期支出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRecurringExpenseRequest true "周期支出信息"
// @Success 201 {object} RecurringExpenseCreatedResponse "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/recurring-expenses [post]
func (h *RecurringExpenseHandler) Create(c *gin.Context) {
	var req CreateRecurringExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	category := strings.TrimSpace(req.Category)
	frequency := strings.TrimSpace(req.Frequency)
	switch {
	case category == "":
		ValidationFailed(c, map[string]string{"category": "required"})
		return
	case frequency == "":
		ValidationFailed(c, map[string]string{"frequency": "required"})
		return
	}
	next, err := models.ParseDate(strings.TrimSpace(req.NextDate))
	if err != nil {
		ValidationFailed(c, map[string]string{"next_date": "date"})
		return
	}

	item := &models.RecurringExpense{
		UserID:    middleware.GetCurrentUserID(c),
		Amount:    req.Amount,
		Category:  category,
		Frequency: frequency,
		NextDate:  next,
	}
	if err := h.items.Create(c.Request.Context(), item); err != nil {
		RespondError(c, err)
		return
	}

	Created(c, RecurringExpenseCreatedResponse{
		RecurringExpenseID: item.ID,
		Message:            "Recurring expense added successfully",
	})
}

// Update 更新周期支出
// @Summary 更新周期支出
// @Tags 周期支出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "周期支出ID"
// @Param request body UpdateRecurringExpenseRequest true "更新字段"
// @Success 200 {object} MessageResponse "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/recurring-expenses/{id} [put]
func (h *RecurringExpenseHandler) Update(c *gin.Context) {
	id, ok := validID(c)
	if !ok {
		NotFound(c, "Recurring expense not found")
		return
	}

	var req UpdateRecurringExpenseRequest
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
	if req.Frequency != nil {
		frequency := strings.TrimSpace(*req.Frequency)
		if frequency == "" {
			ValidationFailed(c, map[string]string{"frequency": "required"})
			return
		}
		fields["frequency"] = frequency
	}
	if req.NextDate != nil {
		next, err := models.ParseDate(strings.TrimSpace(*req.NextDate))
		if err != nil {
			ValidationFailed(c, map[string]string{"next_date": "date"})
			return
		}
		fields["next_date"] = next
	}

	if _, err := h.items.Update(c.Request.Context(), middleware.GetCurrentUserID(c), id, fields); err != nil {
		respondNotFoundAs(c, err, "Recurring expense")
		return
	}
	SuccessWithMessage(c, "Recurring expense updated successfully")
}

// Delete 删除周期支出
// @Summary 删除周期支出
// @Tags 周期支出
// @Produce json
// @Security BearerAuth
// @Param id path string true "周期支出ID"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/recurring-expenses/{id} [delete]
func (h *RecurringExpenseHandler) Delete(c *gin.Context) {
	id, ok := validID(c)
	if !ok {
		NotFound(c, "Recurring expense not found")
		return
	}
	if err := h.items.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		respondNotFoundAs(c, err, "Recurring expense")
		return
	}
	SuccessWithMessage(c, "Recurring expense deleted successfully")
}

// Process 补记到期的周期支出
// @Summary 补记周期支出
// @Description 为 next_date 不晚于今天的周期支出生成消费记录，并推进 next_date
// @Tags 周期支出
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProcessRecurringResponse "补记成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/recurring-expenses/process [post]
func (h *RecurringExpenseHandler) Process(c *gin.Context) {
	created, err := h.processor.Process(c.Request.Context(), middleware.GetCurrentUserID(c), h.today())
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, ProcessRecurringResponse{Created: created})
}
