package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/config"
	"fintrack/logger"
	"fintrack/models"
	"fintrack/repository"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Allocator 按固定类别百分比将收入分配为预算
type Allocator struct {
	categories []models.Category
	mode       string
	scale      int32
	logger     *slog.Logger
}

// NewAllocator 创建预算分配器
func NewAllocator(cfg config.BudgetConfig, log *slog.Logger) *Allocator {
	cats := make([]models.Category, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		cats = append(cats, models.Category{Name: c.Name, Percentage: c.Percentage})
	}
	mode := cfg.AllocationMode
	if mode == "" {
		mode = config.AllocationAdditive
	}
	return &Allocator{
		categories: cats,
		mode:       mode,
		scale:      cfg.CurrencyScale,
		logger:     logger.WithComponent(log, logger.ComponentBudget),
	}
}

// Categories 返回类别表副本
func (a *Allocator) Categories() []models.Category {
	out := make([]models.Category, len(a.categories))
	copy(out, a.categories)
	return out
}

// Plan 计算每个类别的预算额度，limit = income * percentage / 100，按货币精度四舍五入
func (a *Allocator) Plan(income float64) []models.Budget {
	in := decimal.NewFromFloat(income)
	budgets := make([]models.Budget, 0, len(a.categories))
	for _, c := range a.categories {
		limit := in.Mul(decimal.NewFromFloat(c.Percentage)).Div(hundred).Round(a.scale)
		budgets = append(budgets, models.Budget{
			Category:         c.Name,
			Limit:            limit.InexactFloat64(),
			IncomePercentage: c.Percentage,
		})
	}
	return budgets
}

// Allocate 在单个事务中为用户写入本次分配的全部预算
func (a *Allocator) Allocate(ctx context.Context, store *repository.Store, userID string, income float64) ([]models.Budget, error) {
	var result []models.Budget
	err := store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		result, err = a.allocateIn(ctx, tx, userID, income)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// allocateIn 使用调用方提供的事务写入预算
func (a *Allocator) allocateIn(ctx context.Context, tx *repository.Store, userID string, income float64) ([]models.Budget, error) {
	if income < 0 {
		return nil, validationError("income", "must be non-negative")
	}

	planned := a.Plan(income)
	result := make([]models.Budget, 0, len(planned))
	for _, b := range planned {
		b.UserID = userID
		saved, err := a.write(ctx, tx, b)
		if err != nil {
			return nil, fmt.Errorf("allocate %s: %w", b.Category, err)
		}
		result = append(result, *saved)
	}

	a.logger.Info("budgets allocated", logger.FieldUserID, userID, "mode", a.mode, "count", len(result))
	return result, nil
}

func (a *Allocator) write(ctx context.Context, tx *repository.Store, b models.Budget) (*models.Budget, error) {
	if a.mode == config.AllocationUpsert {
		existing, err := tx.Budgets.FindOldestByCategory(ctx, b.UserID, b.Category)
		switch {
		case err == nil:
			return tx.Budgets.Update(ctx, b.UserID, existing.ID, map[string]interface{}{
				"limit_amount":      b.Limit,
				"income_percentage": b.IncomePercentage,
			})
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}
	if err := tx.Budgets.Create(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
