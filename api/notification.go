package api

import (
	"context"

	"fintrack/middleware"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

type notifier interface {
	Send(ctx context.Context, userID, category string) (*service.NotificationResult, error)
}

// NotificationHandler 预算超支通知处理器
type NotificationHandler struct {
	notifier notifier
}

// NewNotificationHandler 创建通知处理器
func NewNotificationHandler(n notifier) *NotificationHandler {
	return &NotificationHandler{notifier: n}
}

// SendNotificationRequest 通知请求
type SendNotificationRequest struct {
	Category string `json:"category" binding:"required" example:"Food"`
}

// Send 检查类别超支并发送通知
// @Summary 发送超支通知
// @Description 使用该类别最早创建的预算作为额度，超支时发送模拟短信
// @Tags 通知
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendNotificationRequest true "类别"
// @Success 200 {object} service.NotificationResult "处理结果"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "该类别没有预算"
// @Router /api/notifications/send [post]
func (h *NotificationHandler) Send(c *gin.Context) {
	var req SendNotificationRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.notifier.Send(c.Request.Context(), middleware.GetCurrentUserID(c), req.Category)
	if err != nil {
		respondNotFoundAs(c, err, "Budget")
		return
	}
	Success(c, res)
}
