package service

import (
	"context"
	"testing"

	"fintrack/logger"
	"fintrack/models"
	"fintrack/repository"
	"fintrack/testutil"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(testutil.NewDB(t))
}

func newTestAllocator(mode string) *Allocator {
	cfg := testutil.TestConfig().Budget
	cfg.AllocationMode = mode
	return NewAllocator(cfg, logger.Discard())
}

func seedUser(t *testing.T, store *repository.Store, email string, income float64) *models.User {
	t.Helper()
	u := &models.User{Name: "Test", Email: email, Password: "x", Income: income}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

func sumLimits(budgets []models.Budget) float64 {
	total := 0.0
	for _, b := range budgets {
		total += b.Limit
	}
	return total
}

