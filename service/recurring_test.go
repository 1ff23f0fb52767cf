package service

import (
	"context"
	"testing"

	"fintrack/logger"
	"fintrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestAddMonthsClamped(t *testing.T) {
	jan31 := mustDate(t, "2024-01-31")
	assert.Equal(t, "2024-02-29", addMonthsClamped(jan31, 1).String())
	assert.Equal(t, "2024-03-31", addMonthsClamped(jan31, 2).String())
	assert.Equal(t, "2025-01-31", addMonthsClamped(jan31, 12).String())
	assert.Equal(t, "2025-02-28", addMonthsClamped(mustDate(t, "2024-02-29"), 12).String())
}

func TestLookupFrequency(t *testing.T) {
	f, ok := lookupFrequency(" Weekly ")
	require.True(t, ok)
	assert.Equal(t, "2024-01-15", f(mustDate(t, "2024-01-01"), 2).String())

	_, ok = lookupFrequency("fortnightly")
	assert.False(t, ok)
}

func TestRecurringService_Process(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, store, "a@example.com", 0)
	s := NewRecurringService(store, logger.Discard())

	monthly := &models.RecurringExpense{UserID: u.ID, Amount: 50, Category: "Utilities", Frequency: "monthly", NextDate: mustDate(t, "2024-01-31")}
	future := &models.RecurringExpense{UserID: u.ID, Amount: 9, Category: "Fun", Frequency: "daily", NextDate: mustDate(t, "2024-06-01")}
	unknown := &models.RecurringExpense{UserID: u.ID, Amount: 1, Category: "X", Frequency: "sometimes", NextDate: mustDate(t, "2024-01-01")}
	for _, r := range []*models.RecurringExpense{monthly, future, unknown} {
		require.NoError(t, store.Recurring.Create(ctx, r))
	}

	created, err := s.Process(ctx, u.ID, mustDate(t, "2024-04-15"))
	require.NoError(t, err)
	assert.Equal(t, 3, created) // 1/31, 2/29, 3/31

	expenses, err := store.Expenses.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	var dates []string
	for _, e := range expenses {
		assert.Equal(t, "Utilities", e.Category)
		assert.Equal(t, 50.0, e.Amount)
		dates = append(dates, models.NewDate(e.Date).String())
	}
	assert.ElementsMatch(t, []string{"2024-01-31", "2024-02-29", "2024-03-31"}, dates)

	got, err := store.Recurring.Get(ctx, u.ID, monthly.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-30", got.NextDate.String())

	got, err = store.Recurring.Get(ctx, u.ID, unknown.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got.NextDate.String())

	// 再次处理同一天不会重复生成
	created, err = s.Process(ctx, u.ID, mustDate(t, "2024-04-15"))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestRecurringService_ProcessAllCapsOccurrences(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	a := seedUser(t, store, "a@example.com", 0)
	b := seedUser(t, store, "b@example.com", 0)
	s := NewRecurringService(store, logger.Discard())

	require.NoError(t, store.Recurring.Create(ctx, &models.RecurringExpense{UserID: a.ID, Amount: 1, Category: "Coffee", Frequency: "daily", NextDate: mustDate(t, "2020-01-01")}))
	require.NoError(t, store.Recurring.Create(ctx, &models.RecurringExpense{UserID: b.ID, Amount: 10, Category: "Gym", Frequency: "yearly", NextDate: mustDate(t, "2023-05-01")}))

	created, err := s.ProcessAll(ctx, mustDate(t, "2024-05-01"))
	require.NoError(t, err)
	assert.Equal(t, maxOccurrencesPerRun+2, created)

	list, err := store.Recurring.List(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	// 达到上限后 next_date 停在下一次未处理的日期
	assert.Equal(t, "2021-01-01", list[0].NextDate.String())
}
