package service

import (
	"errors"
	"fmt"

	"fintrack/middleware"
	"fintrack/repository"
)

// 业务层错误，由 api 层映射为 HTTP 状态码
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = middleware.ErrTokenInvalid
	ErrExpiredToken       = middleware.ErrTokenExpired
	ErrNotFound           = repository.ErrNotFound
	ErrConflict           = errors.New("email already registered")
)

// validationError 包装 ErrValidation 并携带字段信息
func validationError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// FieldError 单个字段的校验错误
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap 使 errors.Is(err, ErrValidation) 成立
func (e *FieldError) Unwrap() error {
	return ErrValidation
}
