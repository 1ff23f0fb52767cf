package service

import (
	"context"
	"strings"

	"fintrack/models"
	"fintrack/repository"
)

// BudgetService 预算的增删改查与对账
type BudgetService struct {
	store     *repository.Store
	allocator *Allocator
}

// NewBudgetService 创建预算服务
func NewBudgetService(store *repository.Store, allocator *Allocator) *BudgetService {
	return &BudgetService{store: store, allocator: allocator}
}

// BudgetInput 新建预算参数
type BudgetInput struct {
	Category         string
	Limit            float64
	IncomePercentage float64
}

// BudgetPatch 更新预算参数，nil 字段保持不变
type BudgetPatch struct {
	Category         *string
	Limit            *float64
	IncomePercentage *float64
}

// List 返回用户全部预算及对账结果，每次调用重新计算
func (s *BudgetService) List(ctx context.Context, userID string) ([]BudgetStatus, error) {
	budgets, err := s.store.Budgets.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.Expenses.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Reconcile(budgets, expenses), nil
}

// Create 新建用户自定义预算，类别不要求属于默认类别表
func (s *BudgetService) Create(ctx context.Context, userID string, in BudgetInput) (*models.Budget, error) {
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, validationError("category", "required")
	}
	if in.Limit < 0 {
		return nil, validationError("limit", "must be non-negative")
	}
	b := &models.Budget{
		UserID:           userID,
		Category:         category,
		Limit:            in.Limit,
		IncomePercentage: in.IncomePercentage,
	}
	if err := s.store.Budgets.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Update 更新预算，limit 与 income_percentage 可以各自修改
func (s *BudgetService) Update(ctx context.Context, userID, id string, p BudgetPatch) (*models.Budget, error) {
	fields := make(map[string]interface{})
	if p.Category != nil {
		category := strings.TrimSpace(*p.Category)
		if category == "" {
			return nil, validationError("category", "must not be empty")
		}
		fields["category"] = category
	}
	if p.Limit != nil {
		if *p.Limit < 0 {
			return nil, validationError("limit", "must be non-negative")
		}
		fields["limit_amount"] = *p.Limit
	}
	if p.IncomePercentage != nil {
		fields["income_percentage"] = *p.IncomePercentage
	}
	return s.store.Budgets.Update(ctx, userID, id, fields)
}

// Delete 删除预算
func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	return s.store.Budgets.Delete(ctx, userID, id)
}

// Categories 默认类别表
func (s *BudgetService) Categories() []models.Category {
	return s.allocator.Categories()
}
