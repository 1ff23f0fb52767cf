package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/logger"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthService 注册、登录与令牌校验
type AuthService struct {
	store     *repository.Store
	tokens    *middleware.TokenManager
	allocator *Allocator
	logger    *slog.Logger
	cost      int
}

// NewAuthService 创建认证服务
func NewAuthService(store *repository.Store, tokens *middleware.TokenManager, allocator *Allocator, log *slog.Logger) *AuthService {
	return &AuthService{
		store:     store,
		tokens:    tokens,
		allocator: allocator,
		logger:    logger.WithComponent(log, logger.ComponentAuth),
		cost:      bcrypt.DefaultCost,
	}
}

// RegisterInput 注册参数
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Income   float64
}

// RegisterResult 注册结果，预算初始化失败时 Warning 非空
type RegisterResult struct {
	UserID  string
	Budgets []models.Budget
	Warning string
}

// Register 注册用户
// 邮箱唯一性由数据库唯一索引保证，并发注册同一邮箱只有一个成功
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, validationError("email", "required")
	}
	if in.Income < 0 {
		return nil, validationError("income", "must be non-negative")
	}
	if err := checkPassword("password", in.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: string(hash),
		Income:   in.Income,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	result := &RegisterResult{UserID: user.ID}
	if user.Income > 0 {
		// 预算初始化失败不回滚用户
		budgets, err := s.allocator.Allocate(ctx, s.store, user.ID, user.Income)
		if err != nil {
			s.logger.Warn("initial budget allocation failed", logger.FieldUserID, user.ID, logger.FieldError, err)
			result.Warning = "user created but default budgets could not be allocated"
		} else {
			result.Budgets = budgets
		}
	}

	s.logger.Info("user registered", logger.FieldUserID, user.ID)
	return result, nil
}

// Login 校验邮箱和密码并签发令牌，邮箱不存在与密码错误返回同一错误
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.Users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Authenticate 校验令牌并返回用户 ID
func (s *AuthService) Authenticate(token string) (string, error) {
	return s.tokens.Authenticate(token)
}

// ChangePassword 校验旧密码后更新密码
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if oldPassword == newPassword {
		return validationError("new_password", "must differ from old_password")
	}
	if err := checkPassword("new_password", newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.store.Users.UpdatePassword(ctx, userID, string(hash))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// bcrypt 只接受不超过 72 字节的密码
const maxPasswordBytes = 72

func checkPassword(field, password string) error {
	if len(password) < 6 {
		return validationError(field, "must be at least 6 characters")
	}
	if len(password) > maxPasswordBytes {
		return validationError(field, "must be at most 72 bytes")
	}
	return nil
}
