package logger

import (
	"io"
	"log/slog"
	"strings"

	"fintrack/config"
)

// 日志字段与组件名
const (
	FieldComponent = "component"
	FieldUserID    = "user_id"
	FieldError     = "error"

	ComponentHTTP      = "http"
	ComponentAuth      = "auth"
	ComponentBudget    = "budget"
	ComponentRecurring = "recurring"
	ComponentNotify    = "notification"
	ComponentAMQP      = "amqp"
	ComponentInsights  = "insights"
)

// New 根据配置创建 slog 日志器，format 为 json 时输出 JSON，否则输出文本
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel 解析日志级别，无法识别时使用 info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent 为日志器附加组件名
func WithComponent(l *slog.Logger, component string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With(FieldComponent, component)
}

// Discard 丢弃所有输出的日志器，用于测试
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
