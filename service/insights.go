package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"fintrack/logger"
	"fintrack/models"
	"fintrack/repository"
)

// InsightsService 支出预测与汇总
type InsightsService struct {
	store      *repository.Store
	forecaster Forecaster
	horizon    int
	timeout    time.Duration
	logger     *slog.Logger
}

// NewInsightsService 创建分析服务
func NewInsightsService(store *repository.Store, forecaster Forecaster, horizon int, timeout time.Duration, log *slog.Logger) *InsightsService {
	return &InsightsService{
		store:      store,
		forecaster: forecaster,
		horizon:    horizon,
		timeout:    timeout,
		logger:     logger.WithComponent(log, logger.ComponentInsights),
	}
}

// Summary 支出、收入记录合计与资料中的收入
type Summary struct {
	TotalExpense  float64 `json:"total_expense"`
	TotalIncome   float64 `json:"total_income"`
	ProfileIncome float64 `json:"profile_income"`
}

// Predictions 按日期排序的历史支出预测后续金额，预测器在超时内未返回则失败
func (s *InsightsService) Predictions(ctx context.Context, userID string) ([]float64, error) {
	expenses, err := s.store.Expenses.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortExpensesByDate(expenses)

	history := make([]float64, len(expenses))
	for i, e := range expenses {
		history[i] = e.Amount
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	type result struct {
		values []float64
		err    error
	}
	done := make(chan result, 1)
	go func() {
		v, err := s.forecaster.Forecast(ctx, history, s.horizon)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("forecast: %w", r.err)
		}
		return r.values, nil
	case <-ctx.Done():
		s.logger.Warn("forecast timed out", logger.FieldUserID, userID, logger.FieldError, ctx.Err())
		return nil, fmt.Errorf("forecast: %w", ctx.Err())
	}
}

// Summary 汇总支出、收入记录与资料收入，两种收入不合并
func (s *InsightsService) Summary(ctx context.Context, userID string) (*Summary, error) {
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.Expenses.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	incomes, err := s.store.Incomes.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	expenseAmounts := make([]float64, len(expenses))
	for i, e := range expenses {
		expenseAmounts[i] = e.Amount
	}
	incomeAmounts := make([]float64, len(incomes))
	for i, in := range incomes {
		incomeAmounts[i] = in.Amount
	}
	return &Summary{
		TotalExpense:  SumAmounts(expenseAmounts),
		TotalIncome:   SumAmounts(incomeAmounts),
		ProfileIncome: user.Income,
	}, nil
}

func sortExpensesByDate(expenses []models.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		if !expenses[i].Date.Equal(expenses[j].Date) {
			return expenses[i].Date.Before(expenses[j].Date)
		}
		return expenses[i].ID < expenses[j].ID
	})
}
