package api

import (
	"context"

	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

type profileService interface {
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateIncome(ctx context.Context, userID string, income float64) ([]models.Budget, error)
}

type passwordChanger interface {
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

// UserHandler 用户资料处理器
type UserHandler struct {
	users     profileService
	passwords passwordChanger
}

// NewUserHandler 创建用户处理器
func NewUserHandler(users profileService, passwords passwordChanger) *UserHandler {
	return &UserHandler{users: users, passwords: passwords}
}

// ProfileResponse 用户资料
type ProfileResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name" example:"Ann"`
	Email  string  `json:"email" example:"ann@example.com"`
	Income float64 `json:"income" example:"5000"`
}

// UpdateIncomeRequest 更新收入请求
type UpdateIncomeRequest struct {
	Income *float64 `json:"income" binding:"required,gte=0" example:"6000"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

// Profile 获取当前用户资料
// @Summary 获取当前用户资料
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/user [get]
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.users.Profile(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		respondNotFoundAs(c, err, "User")
		return
	}
	Success(c, ProfileResponse{ID: user.ID, Name: user.Name, Email: user.Email, Income: user.Income})
}

// UpdateIncome 更新收入并重新分配预算
// @Summary 更新收入
// @Description 更新资料中的收入并按默认类别重新分配预算
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateIncomeRequest true "新的收入"
// @Success 200 {object} MessageResponse "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/user/income [put]
func (h *UserHandler) UpdateIncome(c *gin.Context) {
	var req UpdateIncomeRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.users.UpdateIncome(c.Request.Context(), middleware.GetCurrentUserID(c), *req.Income); err != nil {
		respondNotFoundAs(c, err, "User")
		return
	}
	SuccessWithMessage(c, "Income updated successfully")
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "旧密码与新密码"
// @Success 200 {object} MessageResponse "修改成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "旧密码错误"
// @Router /api/user/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.passwords.ChangePassword(c.Request.Context(), middleware.GetCurrentUserID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		respondNotFoundAs(c, err, "User")
		return
	}
	SuccessWithMessage(c, "Password updated successfully")
}
