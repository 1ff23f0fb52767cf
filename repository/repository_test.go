package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/models"
	"fintrack/testutil"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, s *Store, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "u", Email: email, Password: "hash"}
	require.NoError(t, s.Users.Create(context.Background(), u))
	require.NotEmpty(t, u.ID)
	return u
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	s := NewStore(testutil.NewDB(t))
	createUser(t, s, "a@example.com")

	err := s.Users.Create(context.Background(), &models.User{Name: "b", Email: "a@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_DuplicateEmailMySQL(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	s := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@example.com' for key 'idx_users_email'"})
	mock.ExpectRollback()

	err := s.Users.Create(context.Background(), &models.User{Name: "a", Email: "a@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateIncome(t *testing.T) {
	s := NewStore(testutil.NewDB(t))
	ctx := context.Background()
	u := createUser(t, s, "a@example.com")

	require.NoError(t, s.Users.UpdateIncome(ctx, u.ID, 1234.5))
	// 值不变时也不应报错
	require.NoError(t, s.Users.UpdateIncome(ctx, u.ID, 1234.5))

	got, err := s.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1234.5, got.Income)

	assert.ErrorIs(t, s.Users.UpdateIncome(ctx, "missing", 1), ErrNotFound)
}

func TestLedgerRepository_OwnershipIsolation(t *testing.T) {
	s := NewStore(testutil.NewDB(t))
	ctx := context.Background()
	alice := createUser(t, s, "alice@example.com")
	bob := createUser(t, s, "bob@example.com")

	exp := &models.Expense{UserID: alice.ID, Amount: 10, Category: "Food", Date: time.Now()}
	require.NoError(t, s.Expenses.Create(ctx, exp))

	// bob 看不到 alice 的记录
	list, err := s.Expenses.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, errForeign := s.Expenses.Get(ctx, bob.ID, exp.ID)
	_, errMissing := s.Expenses.Get(ctx, bob.ID, "does-not-exist")
	assert.ErrorIs(t, errForeign, ErrNotFound)
	assert.Equal(t, errMissing, errForeign)

	_, err = s.Expenses.Update(ctx, bob.ID, exp.ID, map[string]interface{}{"amount": 99})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Expenses.Delete(ctx, bob.ID, exp.ID), ErrNotFound)

	// alice 的记录未被修改
	got, err := s.Expenses.Get(ctx, alice.ID, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Amount)
}

func TestLedgerRepository_UpdateAndDelete(t *testing.T) {
	s := NewStore(testutil.NewDB(t))
	ctx := context.Background()
	u := createUser(t, s, "a@example.com")

	goal := &models.Goal{UserID: u.ID, GoalName: "Car", TargetAmount: 1000}
	require.NoError(t, s.Goals.Create(ctx, goal))

	updated, err := s.Goals.Update(ctx, u.ID, goal.ID, map[string]interface{}{"saved_amount": 250})
	require.NoError(t, err)
	assert.Equal(t, 250.0, updated.SavedAmount)
	assert.Equal(t, "Car", updated.GoalName)

	// 空更新返回原记录
	same, err := s.Goals.Update(ctx, u.ID, goal.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, goal.ID, same.ID)

	require.NoError(t, s.Goals.Delete(ctx, u.ID, goal.ID))
	assert.ErrorIs(t, s.Goals.Delete(ctx, u.ID, goal.ID), ErrNotFound)
	_, err = s.Goals.Get(ctx, u.ID, goal.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBudgetRepository_FindOldestByCategory(t *testing.T) {
	s := NewStore(testutil.NewDB(t))
	ctx := context.Background()
	u := createUser(t, s, "a@example.com")

	first := &models.Budget{UserID: u.ID, Category: "Food", Limit: 10}
	require.NoError(t, s.Budgets.Create(ctx, first))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.Budgets.Create(ctx, &models.Budget{UserID: u.ID, Category: "Food", Limit: 20}))
	require.NoError(t, s.Budgets.Create(ctx, &models.Budget{UserID: u.ID, Category: "food", Limit: 30}))

	got, err := s.Budgets.FindOldestByCategory(ctx, u.ID, "Food")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = s.Budgets.FindOldestByCategory(ctx, u.ID, "FOOD")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_TransactionRollback(t *testing.T) {
	s := NewStore(testutil.NewDB(t))
	ctx := context.Background()
	u := createUser(t, s, "a@example.com")

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx *Store) error {
		require.NoError(t, tx.Budgets.Create(ctx, &models.Budget{UserID: u.ID, Category: "Food", Limit: 1}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := s.Budgets.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTranslateError(t *testing.T) {
	assert.Nil(t, translateError(nil))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translateError(gorm.ErrDuplicatedKey), ErrDuplicate)
	assert.ErrorIs(t, translateError(&mysql.MySQLError{Number: 1062}), ErrDuplicate)

	other := errors.New("connection refused")
	assert.Equal(t, other, translateError(other))
}

func TestLedgerRepository_ConnectionFailure(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	s := NewStore(db)

	mock.ExpectQuery("SELECT .* FROM `expenses`").WillReturnError(errors.New("dial tcp: connection refused"))

	_, err := s.Expenses.List(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

