package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fintrack/config"
	"fintrack/logger"
	"fintrack/middleware"
	"fintrack/repository"
	"fintrack/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(store *repository.Store, mode string) *AuthService {
	s := NewAuthService(store, middleware.NewTokenManager("test-secret", time.Hour), newTestAllocator(mode), logger.Discard())
	s.cost = bcrypt.MinCost
	return s
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	store := newTestStore(t)
	s := newTestAuthService(store, config.AllocationAdditive)
	ctx := context.Background()

	res, err := s.Register(ctx, RegisterInput{Name: "Ann", Email: " Ann@Example.com ", Password: "secret1", Income: 5000})
	require.NoError(t, err)
	assert.NotEmpty(t, res.UserID)
	assert.Empty(t, res.Warning)
	assert.Len(t, res.Budgets, 8)

	user, err := store.Users.FindByID(ctx, res.UserID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)

	token, err := s.Login(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)
	userID, err := s.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, res.UserID, userID)
}

func TestAuthService_RegisterWithoutIncome(t *testing.T) {
	store := newTestStore(t)
	s := newTestAuthService(store, config.AllocationAdditive)

	res, err := s.Register(context.Background(), RegisterInput{Name: "Ann", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Empty(t, res.Budgets)

	budgets, err := store.Budgets.List(context.Background(), res.UserID)
	require.NoError(t, err)
	assert.Empty(t, budgets)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	s := newTestAuthService(newTestStore(t), config.AllocationAdditive)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterInput{Email: "", Password: "secret1"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.Register(ctx, RegisterInput{Email: "a@example.com", Password: "secret1", Income: -1})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.Register(ctx, RegisterInput{Email: "a@example.com", Password: "123"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_DuplicateEmail(t *testing.T) {
	s := newTestAuthService(newTestStore(t), config.AllocationAdditive)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = s.Register(ctx, RegisterInput{Name: "B", Email: "A@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthService_ConcurrentDuplicateRegistration(t *testing.T) {
	s := newTestAuthService(newTestStore(t), config.AllocationAdditive)
	ctx := context.Background()

	const n = 5
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Register(ctx, RegisterInput{Name: "X", Email: "race@example.com", Password: "secret1"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrConflict)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestAuthService_LoginFailures(t *testing.T) {
	s := newTestAuthService(newTestStore(t), config.AllocationAdditive)
	ctx := context.Background()
	_, err := s.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, errWrong := s.Login(ctx, "a@example.com", "wrong-password")
	_, errUnknown := s.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.Equal(t, errWrong, errUnknown)
}

func TestAuthService_Authenticate(t *testing.T) {
	s := newTestAuthService(newTestStore(t), config.AllocationAdditive)

	_, err := s.Authenticate("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := middleware.NewTokenManager("test-secret", -time.Minute)
	token, err := expired.GenerateToken("user-1")
	require.NoError(t, err)
	_, err = s.Authenticate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestAuthService_ChangePassword(t *testing.T) {
	s := newTestAuthService(newTestStore(t), config.AllocationAdditive)
	ctx := context.Background()
	res, err := s.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	assert.ErrorIs(t, s.ChangePassword(ctx, res.UserID, "wrong", "secret2"), ErrInvalidCredentials)
	assert.ErrorIs(t, s.ChangePassword(ctx, res.UserID, "secret1", "secret1"), ErrValidation)
	require.NoError(t, s.ChangePassword(ctx, res.UserID, "secret1", "secret2"))

	_, err = s.Login(ctx, "a@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, "a@example.com", "secret2")
	assert.NoError(t, err)

	assert.ErrorIs(t, s.ChangePassword(ctx, "missing", "secret1", "secret2"), ErrNotFound)
}

func TestAuthService_RegisterAllocationFailureKeepsUser(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	s := newTestAuthService(repository.NewStore(db), config.AllocationAdditive)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	// 预算事务无法开启
	mock.ExpectBegin().WillReturnError(errors.New("connection reset"))

	res, err := s.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1", Income: 5000})
	require.NoError(t, err)
	assert.NotEmpty(t, res.UserID)
	assert.NotEmpty(t, res.Warning)
	assert.Empty(t, res.Budgets)
	assert.NoError(t, mock.ExpectationsWereMet())
}
