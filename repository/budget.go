package repository

import (
	"context"

	"fintrack/models"

	"gorm.io/gorm"
)

// BudgetRepository 预算仓储
type BudgetRepository struct {
	*LedgerRepository[models.Budget]
}

// NewBudgetRepository 创建预算仓储
func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{
		LedgerRepository: NewLedgerRepository[models.Budget](db),
	}
}

// FindOldestByCategory 查询用户某类别下最早创建的预算
// 类别比较在内存中进行，保证大小写敏感，不受数据库排序规则影响
func (r *BudgetRepository) FindOldestByCategory(ctx context.Context, userID, category string) (*models.Budget, error) {
	budgets, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range budgets {
		if budgets[i].Category == category {
			return &budgets[i], nil
		}
	}
	return nil, ErrNotFound
}
