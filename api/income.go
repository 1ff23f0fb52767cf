package api

import (
	"strings"

	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// IncomeHandler 收入记录处理器
// 收入记录只用于统计，不参与预算分配
type IncomeHandler struct {
	incomes ledger[models.Income]
}

// NewIncomeHandler 创建收入记录处理器
func NewIncomeHandler(incomes ledger[models.Income]) *IncomeHandler {
	return &IncomeHandler{incomes: incomes}
}

// CreateIncomeRequest 创建收入记录请求
type CreateIncomeRequest struct {
	Source string  `json:"source" binding:"required,max=100" example:"Salary"`
	Amount float64 `json:"amount" binding:"required,gt=0" example:"5000"`
	Date   string  `json:"date" example:"2024-01-31"`
}

// UpdateIncomeRecordRequest 更新收入记录请求
type UpdateIncomeRecordRequest struct {
	Source *string  `json:"source" binding:"omitempty,max=100" example:"Salary"`
	Amount *float64 `json:"amount" binding:"omitempty,gt=0" example:"5200"`
	Date   *string  `json:"date" example:"2024-01-31"`
}

// IncomeCreatedResponse 创建收入记录响应
type IncomeCreatedResponse struct {
	IncomeID string `json:"income_id"`
	Message  string `json:"message" example:"Income added successfully"`
}

// List 获取收入记录列表
// @Summary 获取收入记录列表
// @Tags 收入记录
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Income "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/income [get]
func (h *IncomeHandler) List(c *gin.Context) {
	items, err := h.incomes.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// Create 创建收入记录
// @Summary 创建收入记录
// @Tags 收入记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateIncomeRequest true "收入记录信息"
// @Success 201 {object} IncomeCreatedResponse "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/income [post]
func (h *IncomeHandler) Create(c *gin.Context) {
	var req CreateIncomeRequest
	if !bindJSON(c, &req) {
		return
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		ValidationFailed(c, map[string]string{"source": "required"})
		return
	}
	date, ok := parseTimestamp(req.Date)
	if !ok {
		ValidationFailed(c, map[string]string{"date": "datetime"})
		return
	}

	income := &models.Income{
		UserID: middleware.GetCurrentUserID(c),
		Source: source,
		Amount: req.Amount,
		Date:   date,
	}
	if err := h.incomes.Create(c.Request.Context(), income); err != nil {
		RespondError(c, err)
		return
	}

	Created(c, IncomeCreatedResponse{IncomeID: income.ID, Message: "Income added successfully"})
}

// Update 更新收入记录
// @Summary 更新收入记录
// @Tags 收入记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "收入记录ID"
// @Param request body UpdateIncomeRecordRequest true "更新字段"
// @Success 200 {object} MessageResponse "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/income/{id} [put]
func (h *IncomeHandler) Update(c *gin.Context) {
	id, ok := validID(c)
	if !ok {
		NotFound(c, "Income not found")
		return
	}

	var req UpdateIncomeRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	fields := make(map[string]interface{})
	if req.Source != nil {
		source := strings.TrimSpace(*req.Source)
		if source == "" {
			ValidationFailed(c, map[string]string{"source": "required"})
			return
		}
		fields["source"] = source
	}
	if req.Amount != nil {
		fields["amount"] = *req.Amount
	}
	if req.Date != nil {
		// 更新时空日期视为无效
		date, ok := parseTimestamp(*req.Date)
		if !ok || strings.TrimSpace(*req.Date) == "" {
			ValidationFailed(c, map[string]string{"date": "datetime"})
			return
		}
		fields["received_at"] = date
	}

	if _, err := h.incomes.Update(c.Request.Context(), middleware.GetCurrentUserID(c), id, fields); err != nil {
		respondNotFoundAs(c, err, "Income")
		return
	}
	SuccessWithMessage(c, "Income updated successfully")
}

// Delete 删除收入记录
// @Summary 删除收入记录
// @Tags 收入记录
// @Produce json
// @Security BearerAuth
// @Param id path string true "收入记录ID"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/income/{id} [delete]
func (h *IncomeHandler) Delete(c *gin.Context) {
	id, ok := validID(c)
	if !ok {
		NotFound(c, "Income not found")
		return
	}
	if err := h.incomes.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		respondNotFoundAs(c, err, "Income")
		return
	}
	SuccessWithMessage(c, "Income deleted successfully")
}
