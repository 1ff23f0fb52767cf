package api

import (
	"context"

	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// authenticator 注册与登录
type authenticator interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.RegisterResult, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthHandler 认证处理器
type AuthHandler struct {
	auth authenticator
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(auth authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string   `json:"name" binding:"required,max=100" example:"Ann"`
	Email    string   `json:"email" binding:"required,email,max=100" example:"ann@example.com"`
	Password string   `json:"password" binding:"required,min=6,max=72" example:"secret1"`
	Income   *float64 `json:"income" binding:"omitempty,gte=0" example:"5000"`
}

// RegisterResponse 注册响应
type RegisterResponse struct {
	UserID  string `json:"user_id"`
	Message string `json:"message" example:"User registered successfully"`
	Warning string `json:"warning,omitempty"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"ann@example.com"`
	Password string `json:"password" binding:"required" example:"secret1"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Message     string `json:"message" example:"Login successful"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 注册新用户，income 大于 0 时按默认类别自动分配预算
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 201 {object} RegisterResponse "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "邮箱已注册"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	in := service.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password}
	if req.Income != nil {
		in.Income = *req.Income
	}

	res, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		RespondError(c, err)
		return
	}

	Created(c, RegisterResponse{
		UserID:  res.UserID,
		Message: "User registered successfully",
		Warning: res.Warning,
	})
}

// Login 用户登录
// @Summary 用户登录
// @Description 使用邮箱和密码登录，返回 Bearer 令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} LoginResponse "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "邮箱或密码错误"
// @Failure 429 {object} Response "尝试过于频繁"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}

	Success(c, LoginResponse{AccessToken: token, Message: "Login successful"})
}
