package api

import (
	"errors"
	"net/http"

	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// Response 通用响应结构
type Response struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// MessageResponse 仅包含提示信息的响应
type MessageResponse struct {
	Message string `json:"message" example:"Expense updated successfully"`
}

// internalErrorMessage 500 响应的固定提示，内部错误详情只写日志
const internalErrorMessage = "internal server error"

// Success 成功响应，直接输出 data
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// SuccessWithMessage 仅带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// ValidationFailed 400 错误响应，附带字段级错误
func ValidationFailed(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    http.StatusBadRequest,
		Message: "validation failed",
		Errors:  fields,
	})
}

// Unauthorized 401 错误响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 409 错误响应
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError 500 错误响应，错误交给请求日志记录，不返回给客户端
func InternalError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	Error(c, http.StatusInternalServerError, internalErrorMessage)
}

// RespondError 将业务错误映射为 HTTP 响应
func RespondError(c *gin.Context, err error) {
	var fieldErr *service.FieldError
	switch {
	case errors.As(err, &fieldErr):
		ValidationFailed(c, map[string]string{fieldErr.Field: fieldErr.Reason})
	case errors.Is(err, service.ErrValidation):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, "Invalid credentials")
	case errors.Is(err, service.ErrExpiredToken):
		Unauthorized(c, "token has expired")
	case errors.Is(err, service.ErrInvalidToken):
		Unauthorized(c, "invalid token")
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, "record not found")
	case errors.Is(err, service.ErrConflict):
		Conflict(c, "email already registered")
	default:
		InternalError(c, err)
	}
}

// respondNotFoundAs 记录不存在时使用资源相关的提示，其它错误按 RespondError 处理
func respondNotFoundAs(c *gin.Context, err error, resource string) {
	if errors.Is(err, service.ErrNotFound) {
		NotFound(c, resource+" not found")
		return
	}
	RespondError(c, err)
}
