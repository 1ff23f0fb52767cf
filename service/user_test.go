package service

import (
	"context"
	"testing"

	"fintrack/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateIncome(t *testing.T) {
	for _, tc := range []struct {
		mode      string
		wantCount int
	}{
		{config.AllocationAdditive, 16},
		{config.AllocationUpsert, 8},
	} {
		t.Run(tc.mode, func(t *testing.T) {
			store := newTestStore(t)
			ctx := context.Background()
			a := newTestAllocator(tc.mode)
			s := NewUserService(store, a)
			u := seedUser(t, store, "a@example.com", 5000)

			_, err := a.Allocate(ctx, store, u.ID, 5000)
			require.NoError(t, err)

			allocated, err := s.UpdateIncome(ctx, u.ID, 6000)
			require.NoError(t, err)
			assert.Len(t, allocated, 8)
			assert.Equal(t, 6000.0, sumLimits(allocated))

			profile, err := s.Profile(ctx, u.ID)
			require.NoError(t, err)
			assert.Equal(t, 6000.0, profile.Income)

			budgets, err := store.Budgets.List(ctx, u.ID)
			require.NoError(t, err)
			assert.Len(t, budgets, tc.wantCount)
		})
	}
}

func TestUserService_UpdateIncomeErrors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	s := NewUserService(store, newTestAllocator(config.AllocationAdditive))
	u := seedUser(t, store, "a@example.com", 100)

	_, err := s.UpdateIncome(ctx, u.ID, -5)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.UpdateIncome(ctx, "missing", 100)
	assert.ErrorIs(t, err, ErrNotFound)

	// 失败时收入保持不变
	profile, err := s.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, profile.Income)
}
