package api

import (
	"context"

	"fintrack/middleware"

	"github.com/gin-gonic/gin"
)

type voiceAssistant interface {
	Handle(ctx context.Context, userID, command string) (string, error)
}

// VoiceHandler 语音指令处理器
type VoiceHandler struct {
	assistant voiceAssistant
}

// NewVoiceHandler 创建语音指令处理器
func NewVoiceHandler(assistant voiceAssistant) *VoiceHandler {
	return &VoiceHandler{assistant: assistant}
}

// VoiceCommandRequest 语音指令请求
type VoiceCommandRequest struct {
	Command string `json:"command" binding:"required" example:"How much have I spent on Food"`
}

// VoiceCommandResponse 语音指令响应
type VoiceCommandResponse struct {
	Response string `json:"response" example:"You spent $100.00 on Food."`
}

// Command 处理语音指令
// @Summary 语音指令
// @Description 识别 "spent on <类别>" 并返回该类别的消费合计
// @Tags 语音
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VoiceCommandRequest true "指令文本"
// @Success 200 {object} VoiceCommandResponse "处理结果"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/voice/command [post]
func (h *VoiceHandler) Command(c *gin.Context) {
	var req VoiceCommandRequest
	if !bindJSON(c, &req) {
		return
	}
	answer, err := h.assistant.Handle(c.Request.Context(), middleware.GetCurrentUserID(c), req.Command)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, VoiceCommandResponse{Response: answer})
}
