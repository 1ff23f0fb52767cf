package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/logger"
	"fintrack/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Mailer 发送预算提醒邮件
type Mailer interface {
	Enabled() bool
	SendBudgetAlertEmail(ctx context.Context, toEmail string, alert BudgetAlert) error
}

// EventPublisher 发布预算事件
type EventPublisher interface {
	PublishBudgetExceeded(ctx context.Context, evt *BudgetExceededEvent) error
}

// NotificationResult 通知结果，未超支时 MessageID 为空
type NotificationResult struct {
	MessageID string `json:"message_id,omitempty"`
	Message   string `json:"message"`
}

// NotificationService 预算超支通知（模拟短信，可选邮件与消息队列）
type NotificationService struct {
	store     *repository.Store
	mailer    Mailer
	publisher EventPublisher
	timeout   time.Duration
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time
}

// NewNotificationService 创建通知服务，mailer 与 publisher 可为 nil
func NewNotificationService(store *repository.Store, mailer Mailer, publisher EventPublisher, timeout time.Duration, log *slog.Logger) *NotificationService {
	return &NotificationService{
		store:     store,
		mailer:    mailer,
		publisher: publisher,
		timeout:   timeout,
		logger:    logger.WithComponent(log, logger.ComponentNotify),
		newID:     func() string { return "mock_" + uuid.NewString() },
		now:       time.Now,
	}
}

// Send 检查类别是否超支，超支时发送通知
// 使用该类别下最早创建的预算作为额度；类别没有预算时返回 ErrNotFound
func (s *NotificationService) Send(ctx context.Context, userID, category string) (*NotificationResult, error) {
	if strings.TrimSpace(category) == "" {
		return nil, validationError("category", "required")
	}

	budget, err := s.store.Budgets.FindOldestByCategory(ctx, userID, category)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.Expenses.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	spent := SpentByCategory(expenses)[category].InexactFloat64()

	if spent <= budget.Limit {
		return &NotificationResult{Message: "No notification sent."}, nil
	}

	evt := &BudgetExceededEvent{
		UserID:    userID,
		BudgetID:  budget.ID,
		Category:  category,
		Limit:     budget.Limit,
		Spent:     spent,
		MessageID: s.newID(),
		Timestamp: s.now().UTC(),
	}
	s.dispatch(ctx, evt)

	return &NotificationResult{
		MessageID: evt.MessageID,
		Message:   fmt.Sprintf("Mock SMS sent: You've exceeded your budget for %s.", category),
	}, nil
}

// dispatch 并发投递邮件与事件，失败只记录日志
func (s *NotificationService) dispatch(ctx context.Context, evt *BudgetExceededEvent) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var g errgroup.Group
	if s.mailer != nil && s.mailer.Enabled() {
		g.Go(func() error {
			user, err := s.store.Users.FindByID(ctx, evt.UserID)
			if err == nil {
				err = s.mailer.SendBudgetAlertEmail(ctx, user.Email, BudgetAlert{
					Name:     user.Name,
					Category: evt.Category,
					Limit:    evt.Limit,
					Spent:    evt.Spent,
				})
			}
			if err != nil {
				s.logger.Warn("budget alert email failed", logger.FieldUserID, evt.UserID, logger.FieldError, err)
			}
			return nil
		})
	}
	if s.publisher != nil {
		g.Go(func() error {
			if err := s.publisher.PublishBudgetExceeded(ctx, evt); err != nil {
				s.logger.Warn("budget exceeded event failed", logger.FieldUserID, evt.UserID, logger.FieldError, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
