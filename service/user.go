package service

import (
	"context"

	"fintrack/models"
	"fintrack/repository"
)

// UserService 用户资料与收入
type UserService struct {
	store     *repository.Store
	allocator *Allocator
}

// NewUserService 创建用户服务
func NewUserService(store *repository.Store, allocator *Allocator) *UserService {
	return &UserService{store: store, allocator: allocator}
}

// Profile 获取用户资料
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.store.Users.FindByID(ctx, userID)
}

// UpdateIncome 更新收入并重新分配预算，两者在同一事务中完成
func (s *UserService) UpdateIncome(ctx context.Context, userID string, income float64) ([]models.Budget, error) {
	if income < 0 {
		return nil, validationError("income", "must be non-negative")
	}

	var budgets []models.Budget
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Users.UpdateIncome(ctx, userID, income); err != nil {
			return err
		}
		var err error
		budgets, err = s.allocator.allocateIn(ctx, tx, userID, income)
		return err
	})
	if err != nil {
		return nil, err
	}
	return budgets, nil
}
