package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/logger"
	"fintrack/models"
	"fintrack/repository"
)

// maxOccurrencesPerRun 单次处理中每条周期支出最多补记的次数
const maxOccurrencesPerRun = 366

// occurrenceFunc 返回从 anchor 起第 k 次发生的日期
type occurrenceFunc func(anchor models.Date, k int) models.Date

// frequencies 支持的频率，按名称查找
var frequencies = map[string]occurrenceFunc{
	"daily": func(a models.Date, k int) models.Date {
		return models.NewDate(a.AddDate(0, 0, k))
	},
	"weekly": func(a models.Date, k int) models.Date {
		return models.NewDate(a.AddDate(0, 0, 7*k))
	},
	"monthly": func(a models.Date, k int) models.Date {
		return addMonthsClamped(a, k)
	},
	"yearly": func(a models.Date, k int) models.Date {
		return addMonthsClamped(a, 12*k)
	},
}

// addMonthsClamped 加 n 个月，目标月份天数不足时取月末
func addMonthsClamped(d models.Date, n int) models.Date {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > lastDay {
		day = lastDay
	}
	return models.Date{Time: time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)}
}

// lookupFrequency 按名称（不区分大小写）查找频率
func lookupFrequency(name string) (occurrenceFunc, bool) {
	f, ok := frequencies[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// RecurringService 将到期的周期支出落地为支出记录
type RecurringService struct {
	store  *repository.Store
	logger *slog.Logger
}

// NewRecurringService 创建周期支出服务
func NewRecurringService(store *repository.Store, log *slog.Logger) *RecurringService {
	return &RecurringService{store: store, logger: logger.WithComponent(log, logger.ComponentRecurring)}
}

// Process 为用户补记所有 next_date 不晚于 today 的周期支出，并把 next_date 推进到 today 之后
// 未知频率的记录跳过；返回新建的支出数量
func (s *RecurringService) Process(ctx context.Context, userID string, today models.Date) (int, error) {
	created := 0
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		items, err := tx.Recurring.List(ctx, userID)
		if err != nil {
			return err
		}
		for _, item := range items {
			n, err := s.materialize(ctx, tx, item, today)
			if err != nil {
				return fmt.Errorf("recurring %s: %w", item.ID, err)
			}
			created += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if created > 0 {
		s.logger.Info("recurring expenses materialized", logger.FieldUserID, userID, "created", created)
	}
	return created, nil
}

func (s *RecurringService) materialize(ctx context.Context, tx *repository.Store, item models.RecurringExpense, today models.Date) (int, error) {
	if item.NextDate.After(today.Time) {
		return 0, nil
	}
	occurrence, ok := lookupFrequency(item.Frequency)
	if !ok {
		s.logger.Warn("unknown recurring frequency, skipped", "id", item.ID, "frequency", item.Frequency)
		return 0, nil
	}

	k := 0
	next := item.NextDate
	for !next.After(today.Time) && k < maxOccurrencesPerRun {
		exp := &models.Expense{
			UserID:   item.UserID,
			Amount:   item.Amount,
			Category: item.Category,
			Date:     next.Time,
		}
		if err := tx.Expenses.Create(ctx, exp); err != nil {
			return k, err
		}
		k++
		next = occurrence(item.NextDate, k)
	}

	if _, err := tx.Recurring.Update(ctx, item.UserID, item.ID, map[string]interface{}{"next_date": next}); err != nil {
		return k, err
	}
	return k, nil
}

// ProcessAll 处理所有用户，单个用户失败不影响其他用户
func (s *RecurringService) ProcessAll(ctx context.Context, today models.Date) (int, error) {
	ids, err := s.store.Users.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	var errs []error
	for _, id := range ids {
		n, err := s.Process(ctx, id, today)
		if err != nil {
			s.logger.Error("process recurring expenses failed", logger.FieldUserID, id, logger.FieldError, err)
			errs = append(errs, fmt.Errorf("user %s: %w", id, err))
			continue
		}
		total += n
	}
	return total, errors.Join(errs...)
}
