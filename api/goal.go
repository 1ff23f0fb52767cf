package api

import (
	"strings"

	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// GoalHandler 储蓄目标处理器
type GoalHandler struct {
	goals ledger[models.Goal]
}

// NewGoalHandler 创建储蓄目标处理器
func NewGoalHandler(goals ledger[models.Goal]) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// CreateGoalRequest 创建储蓄目标请求
type CreateGoalRequest struct {
	GoalName     string  `json:"goal_name" binding:"required,max=100" example:"Holiday"`
	TargetAmount float64 `json:"target_amount" binding:"required,gt=0" example:"2000"`
	SavedAmount  float64 `json:"saved_amount" binding:"gte=0" example:"150"`
	TargetDate   string  `json:"target_date" example:"2025-06-30"`
}

// UpdateGoalRequest 更新储蓄目标请求，target_date 传空字符串表示清除
type UpdateGoalRequest struct {
	GoalName     *string  `json:"goal_name" binding:"omitempty,max=100"`
	TargetAmount *float64 `json:"target_amount" binding:"omitempty,gt=0"`
	SavedAmount  *float64 `json:"saved_amount" binding:"omitempty,gte=0"`
	TargetDate   *string  `json:"target_date"`
}

// GoalCreatedResponse 创建储蓄目标响应
type GoalCreatedResponse struct {
	GoalID  string `json:"goal_id"`
	Message string `json:"message" example:"Goal created successfully"`
}

// List 获取储蓄目标列表
// @Summary 获取储蓄目标列表
// @Tags 储蓄目标
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Goal "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	items, err := h.goals.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, items)
}

// Create 创建储蓄目标
// @Summary 创建储蓄目标
// @Tags 储蓄目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGoalRequest true "储蓄目标信息"
// @Success 201 {object} GoalCreatedResponse "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	var req CreateGoalRequest
	if !bindJSON(c, &req) {
		return
	}

	name := strings.TrimSpace(req.GoalName)
	if name == "" {
		ValidationFailed(c, map[string]string{"goal_name": "required"})
		return
	}
	targetDate, ok := parseOptionalDate(req.TargetDate)
	if !ok {
		ValidationFailed(c, map[string]string{"target_date": "date"})
		return
	}

	goal := &models.Goal{
		UserID:       middleware.GetCurrentUserID(c),
		GoalName:     name,
		TargetAmount: req.TargetAmount,
		SavedAmount:  req.SavedAmount,
		TargetDate:   targetDate,
	}
	if err := h.goals.Create(c.Request.Context(), goal); err != nil {
		RespondError(c, err)
		return
	}

	Created(c, GoalCreatedResponse{GoalID: goal.ID, Message: "Goal created successfully"})
}

// Update 更新储蓄目标
// @Summary 更新储蓄目标
// @Tags 储蓄目标
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "储蓄目标ID"
// @Param request body UpdateGoalRequest true "更新字段"
// @Success 200 {object} MessageResponse "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	id, ok := validID(c)
	if !ok {
		NotFound(c, "Goal not found")
		return
	}

	var req UpdateGoalRequest
	if !bindJSON(c, &req) {
		return
	}

	fields := make(map[string]interface{})
	if req.GoalName != nil {
		name := strings.TrimSpace(*req.GoalName)
		if name == "" {
			ValidationFailed(c, map[string]string{"goal_name": "required"})
			return
		}
		fields["goal_name"] = name
	}
	if req.TargetAmount != nil {
		fields["target_amount"] = *req.TargetAmount
	}
	if req.SavedAmount != nil {
		fields["saved_amount"] = *req.SavedAmount
	}
	if req.TargetDate != nil {
		targetDate, ok := parseOptionalDate(*req.TargetDate)
		if !ok {
			ValidationFailed(c, map[string]string{"target_date": "date"})
			return
		}
		fields["target_date"] = targetDate
	}

	if _, err := h.goals.Update(c.Request.Context(), middleware.GetCurrentUserID(c), id, fields); err != nil {
		respondNotFoundAs(c, err, "Goal")
		return
	}
	SuccessWithMessage(c, "Goal updated successfully")
}

// Delete 删除储蓄目标
// @Summary 删除储蓄目标
// @Tags 储蓄目标
// @Produce json
// @Security BearerAuth
// @Param id path string true "储蓄目标ID"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	id, ok := validID(c)
	if !ok {
		NotFound(c, "Goal not found")
		return
	}
	if err := h.goals.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		respondNotFoundAs(c, err, "Goal")
		return
	}
	SuccessWithMessage(c, "Goal deleted successfully")
}

// parseOptionalDate 空字符串返回 nil
func parseOptionalDate(s string) (*models.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, false
	}
	return &d, true
}
