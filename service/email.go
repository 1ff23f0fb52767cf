package service

import (
	"context"
	"errors"
	"fmt"
	"html"

	"fintrack/config"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled 邮件服务未启用
var ErrEmailDisabled = errors.New("email service is disabled")

// EmailService 邮件服务
type EmailService struct {
	cfg  *config.EmailConfig
	send func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.send = s.dialAndSend
	return s
}

// Enabled 是否启用
func (s *EmailService) Enabled() bool {
	return s.cfg.Enabled
}

// BudgetAlert 预算超支提醒内容
type BudgetAlert struct {
	Name     string
	Category string
	Limit    float64
	Spent    float64
}

// SendBudgetAlertEmail 发送预算超支提醒邮件
func (s *EmailService) SendBudgetAlertEmail(ctx context.Context, toEmail string, alert BudgetAlert) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}

	subject := fmt.Sprintf("[fintrack] Budget exceeded: %s", alert.Category)
	body := s.generateBudgetAlertBody(alert)

	return s.sendEmail(ctx, toEmail, subject, body)
}

// generateBudgetAlertBody 生成超支提醒邮件内容
func (s *EmailService) generateBudgetAlertBody(alert BudgetAlert) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #ef4444, #b91c1c); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        table { width: 100%%; border-collapse: collapse; }
        td { padding: 8px; border-bottom: 1px solid #eee; }
        .over { color: #b91c1c; font-weight: bold; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Budget alert</h1>
        </div>
        <div class="content">
            <p>Hi <strong>%s</strong>,</p>
            <p>You've exceeded your budget for <strong>%s</strong>.</p>
            <table>
                <tr><td>Limit</td><td>%.2f</td></tr>
                <tr><td>Spent</td><td>%.2f</td></tr>
                <tr><td>Over by</td><td class="over">%.2f</td></tr>
            </table>
        </div>
        <div class="footer">
            <p>This message was sent automatically, please do not reply.</p>
        </div>
    </div>
</body>
</html>
`, html.EscapeString(alert.Name), html.EscapeString(alert.Category), alert.Limit, alert.Spent, alert.Spent-alert.Limit)
}

// sendEmail 发送邮件，ctx 取消时立即返回
func (s *EmailService) sendEmail(ctx context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	done := make(chan error, 1)
	go func() { done <- s.send(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send email: %w", ctx.Err())
	}
}

func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
