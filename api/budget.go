package api

import (
	"context"

	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

type budgetService interface {
	List(ctx context.Context, userID string) ([]service.BudgetStatus, error)
	Create(ctx context.Context, userID string, in service.BudgetInput) (*models.Budget, error)
	Update(ctx context.Context, userID, id string, p service.BudgetPatch) (*models.Budget, error)
	Delete(ctx context.Context, userID, id string) error
	Categories() []models.Category
}

// BudgetHandler 预算处理器
type BudgetHandler struct {
	budgets budgetService
}

// NewBudgetHandler 创建预算处理器
func NewBudgetHandler(budgets budgetService) *BudgetHandler {
	return &BudgetHandler{budgets: budgets}
}

// CreateBudgetRequest 创建预算请求
type CreateBudgetRequest struct {
	Category         string   `json:"category" binding:"required,max=50" example:"Food"`
	Limit            *float64 `json:"limit" binding:"required,gte=0" example:"750"`
	IncomePercentage float64  `json:"income_percentage" binding:"gte=0,lte=100" example:"15"`
}

// UpdateBudgetRequest 更新预算请求
type UpdateBudgetRequest struct {
	Category         *string  `json:"category" binding:"omitempty,max=50" example:"Food"`
	Limit            *float64 `json:"limit" binding:"omitempty,gte=0" example:"800"`
	IncomePercentage *float64 `json:"income_percentage" binding:"omitempty,gte=0,lte=100" example:"16"`
}

// BudgetCreatedResponse 创建预算响应
type BudgetCreatedResponse struct {
	BudgetID string `json:"budget_id"`
	Message  string `json:"message" example:"Budget created successfully"`
}

// List 获取预算及对账结果
// @Summary 获取预算列表
// @Description 返回全部预算，spent 为同类别消费合计，remaining 为 limit 减 spent，可为负数
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.BudgetStatus "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	items, err := h.budgets.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// Create 创建预算
// @Summary 创建预算
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "预算信息"
// @Success 201 {object} BudgetCreatedResponse "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	var req CreateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}

	budget, err := h.budgets.Create(c.Request.Context(), middleware.GetCurrentUserID(c), service.BudgetInput{
		Category:         req.Category,
		Limit:            *req.Limit,
		IncomePercentage: req.IncomePercentage,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, BudgetCreatedResponse{BudgetID: budget.ID, Message: "Budget created successfully"})
}

// Update 更新预算
// @Summary 更新预算
// @Tags 预算
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "预算ID"
// @Param request body UpdateBudgetRequest true "更新字段"
// @Success 200 {object} MessageResponse "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	id, ok := validID(c)
	if !ok {
		NotFound(c, "Budget not found")
		return
	}

	var req UpdateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}

	_, err := h.budgets.Update(c.Request.Context(), middleware.GetCurrentUserID(c), id, service.BudgetPatch{
		Category:         req.Category,
		Limit:            req.Limit,
		IncomePercentage: req.IncomePercentage,
	})
	if err != nil {
		respondNotFoundAs(c, err, "Budget")
		return
	}
	SuccessWithMessage(c, "Budget updated successfully")
}

// Delete 删除预算
// @Summary 删除预算
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Param id path string true "预算ID"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 404 {object} Response "预算不存在"
// @Router /api/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	id, ok := validID(c)
	if !ok {
		NotFound(c, "Budget not found")
		return
	}
	if err := h.budgets.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		respondNotFoundAs(c, err, "Budget")
		return
	}
	SuccessWithMessage(c, "Budget deleted successfully")
}

// Categories 默认预算类别
// @Summary 获取默认预算类别
// @Description 注册与更新收入时按此表分配预算，百分比之和为 100
// @Tags 预算
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Category "获取成功"
// @Router /api/budgets/categories [get]
func (h *BudgetHandler) Categories(c *gin.Context) {
	Success(c, h.budgets.Categories())
}
