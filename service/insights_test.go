package service

import (
	"context"
	"testing"
	"time"

	"fintrack/logger"
	"fintrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowForecaster struct{}

func (slowForecaster) Forecast(ctx context.Context, _ []float64, _ int) ([]float64, error) {
	<-ctx.Done()
	time.Sleep(10 * time.Millisecond)
	return []float64{1}, nil
}

func TestInsightsService_Predictions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, store, "a@example.com", 0)
	s := NewInsightsService(store, LinearForecaster{}, 3, time.Second, logger.Discard())

	got, err := s.Predictions(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	// 按日期排序，而不是按写入顺序
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, amount := range []float64{30, 10, 20} {
		day := []int{2, 0, 1}[i]
		require.NoError(t, store.Expenses.Create(ctx, &models.Expense{
			UserID: u.ID, Amount: amount, Category: "Food", Date: base.AddDate(0, 0, day),
		}))
	}

	got, err = s.Predictions(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []float64{40, 50, 60}, got)
}

func TestInsightsService_PredictionsTimeout(t *testing.T) {
	store := newTestStore(t)
	u := seedUser(t, store, "a@example.com", 0)
	s := NewInsightsService(store, slowForecaster{}, 3, 20*time.Millisecond, logger.Discard())

	_, err := s.Predictions(context.Background(), u.ID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInsightsService_Summary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, store, "a@example.com", 5000)
	s := NewInsightsService(store, LinearForecaster{}, 3, time.Second, logger.Discard())

	require.NoError(t, store.Expenses.Create(ctx, &models.Expense{UserID: u.ID, Amount: 0.1, Category: "Food", Date: time.Now()}))
	require.NoError(t, store.Expenses.Create(ctx, &models.Expense{UserID: u.ID, Amount: 0.2, Category: "Fun", Date: time.Now()}))
	require.NoError(t, store.Incomes.Create(ctx, &models.Income{UserID: u.ID, Amount: 1200, Source: "Salary", Date: time.Now()}))

	sum, err := s.Summary(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.3, sum.TotalExpense)
	assert.Equal(t, 1200.0, sum.TotalIncome)
	assert.Equal(t, 5000.0, sum.ProfileIncome)

	_, err = s.Summary(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
