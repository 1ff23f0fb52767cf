package api

import (
	"context"

	"fintrack/middleware"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

type insightsService interface {
	Predictions(ctx context.Context, userID string) ([]float64, error)
	Summary(ctx context.Context, userID string) (*service.Summary, error)
}

// InsightsHandler 支出分析处理器
type InsightsHandler struct {
	insights insightsService
}

// NewInsightsHandler 创建支出分析处理器
func NewInsightsHandler(insights insightsService) *InsightsHandler {
	return &InsightsHandler{insights: insights}
}

// PredictionsResponse 支出预测
type PredictionsResponse struct {
	Predictions []float64 `json:"predictions"`
}

// Predictions 预测后续支出
// @Summary 支出预测
// @Description 按日期排序的历史支出拟合趋势，预测后续金额；没有支出时返回空数组
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PredictionsResponse "预测结果"
// @Failure 401 {object} Response "未授权"
// @Router /api/insights/predictions [get]
func (h *InsightsHandler) Predictions(c *gin.Context) {
	predictions, err := h.insights.Predictions(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, PredictionsResponse{Predictions: predictions})
}

// Summary 收支汇总
// @Summary 收支汇总
// @Description 消费记录合计、收入记录合计与资料中的收入
// @Tags 分析
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Summary "汇总结果"
// @Failure 401 {object} Response "未授权"
// @Router /api/insights/summary [get]
func (h *InsightsHandler) Summary(c *gin.Context) {
	summary, err := h.insights.Summary(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		respondNotFoundAs(c, err, "User")
		return
	}
	Success(c, summary)
}
