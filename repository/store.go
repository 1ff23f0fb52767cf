package repository

import (
	"context"

	"fintrack/models"

	"gorm.io/gorm"
)

// Store 聚合全部仓储，支持在同一事务中操作
type Store struct {
	db        *gorm.DB
	Users     *UserRepository
	Budgets   *BudgetRepository
	Expenses  *LedgerRepository[models.Expense]
	Incomes   *LedgerRepository[models.Income]
	Goals     *LedgerRepository[models.Goal]
	Recurring *LedgerRepository[models.RecurringExpense]
}

// NewStore 创建仓储集合
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Users:     NewUserRepository(db),
		Budgets:   NewBudgetRepository(db),
		Expenses:  NewLedgerRepository[models.Expense](db),
		Incomes:   NewLedgerRepository[models.Income](db),
		Goals:     NewLedgerRepository[models.Goal](db),
		Recurring: NewLedgerRepository[models.RecurringExpense](db),
	}
}

// Transaction 在事务中执行 fn，fn 返回错误时回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping 检查数据库连通性
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
