package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	Database     DatabaseConfig     `mapstructure:"database"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Budget       BudgetConfig       `mapstructure:"budget"`
	Email        EmailConfig        `mapstructure:"email"`
	AMQP         AMQPConfig         `mapstructure:"amqp"`
	Insights     InsightsConfig     `mapstructure:"insights"`
	Notification NotificationConfig `mapstructure:"notification"`
	RateLimit    RateLimitConfig    `mapstructure:"ratelimit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug/info/warn/error
	Format string `mapstructure:"format"` // text/json
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // mysql/sqlite
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	Charset      string `mapstructure:"charset"`
	Path         string `mapstructure:"path"` // sqlite 文件路径，:memory: 为内存库
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	LogLevel     string `mapstructure:"log_level"` // silent/error/warn/info
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// CategoryConfig 预算类别及其占收入百分比
type CategoryConfig struct {
	Name       string  `mapstructure:"name"`
	Percentage float64 `mapstructure:"percentage"`
}

// BudgetConfig 预算分配配置
type BudgetConfig struct {
	AllocationMode string           `mapstructure:"allocation_mode"` // additive/upsert
	CurrencyScale  int32            `mapstructure:"currency_scale"`  // 金额保留的小数位
	Categories     []CategoryConfig `mapstructure:"categories"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// AMQPConfig 消息队列配置（预算超支事件）
type AMQPConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	Exchange   string `mapstructure:"exchange"`
	RoutingKey string `mapstructure:"routing_key"`
}

// InsightsConfig 支出预测配置
type InsightsConfig struct {
	Horizon int           `mapstructure:"horizon"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// NotificationConfig 通知配置
type NotificationConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig 登录限流配置
type RateLimitConfig struct {
	LoginAttempts int           `mapstructure:"login_attempts"`
	LoginWindow   time.Duration `mapstructure:"login_window"`
}

const (
	// AllocationAdditive 每次分配都新增一组预算
	AllocationAdditive = "additive"
	// AllocationUpsert 按 (用户, 类别) 更新已有预算，不存在则新增
	AllocationUpsert = "upsert"
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", configPath, err)
		}
		slog.Info("已合并外部配置文件", "path", configPath)
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/fintrack")
		externalViper.AddConfigPath("$HOME/.fintrack")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				slog.Warn("合并外部配置失败", "error", err)
			} else {
				slog.Info("已合并外部配置文件", "path", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 环境变量覆盖，如 FINTRACK_JWT_SECRET
	v.SetEnvPrefix("FINTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	cfg.JWT.ExpireTime = time.Duration(cfg.JWT.ExpireHours) * time.Hour

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验配置，一次性返回所有问题
func (c *Config) Validate() error {
	var problems []string

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		problems = append(problems, fmt.Sprintf("server.mode 取值无效: %q", c.Server.Mode))
	}

	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("database.driver 取值无效: %q", c.Database.Driver))
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		problems = append(problems, "database.path 不能为空")
	}

	if c.JWT.Secret == "" {
		problems = append(problems, "jwt.secret 不能为空")
	}

	switch c.Budget.AllocationMode {
	case AllocationAdditive, AllocationUpsert:
	default:
		problems = append(problems, fmt.Sprintf("budget.allocation_mode 取值无效: %q", c.Budget.AllocationMode))
	}
	if c.Budget.CurrencyScale < 0 || c.Budget.CurrencyScale > 8 {
		problems = append(problems, "budget.currency_scale 需在 0-8 之间")
	}
	problems = append(problems, validateCategories(c.Budget.Categories)...)

	if c.Insights.Horizon <= 0 {
		problems = append(problems, "insights.horizon 必须大于 0")
	}
	if c.AMQP.Enabled && c.AMQP.URL == "" {
		problems = append(problems, "amqp.url 不能为空")
	}

	if len(problems) > 0 {
		return errors.New("配置校验失败: " + strings.Join(problems, "; "))
	}
	return nil
}

func validateCategories(cats []CategoryConfig) []string {
	if len(cats) == 0 {
		return []string{"budget.categories 不能为空"}
	}
	var problems []string
	seen := make(map[string]bool, len(cats))
	total := 0.0
	for _, cat := range cats {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			problems = append(problems, "budget.categories 存在空名称")
			continue
		}
		if seen[name] {
			problems = append(problems, fmt.Sprintf("budget.categories 类别重复: %s", name))
		}
		seen[name] = true
		if cat.Percentage < 0 {
			problems = append(problems, fmt.Sprintf("类别 %s 的百分比不能为负数", name))
		}
		total += cat.Percentage
	}
	if math.Abs(total-100) > 1e-9 {
		problems = append(problems, fmt.Sprintf("budget.categories 百分比之和应为 100，实际为 %g", total))
	}
	return problems
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func (c *Config) PrintConfig(logger *slog.Logger) {
	logger.Info("当前配置",
		"port", c.Server.Port,
		"mode", c.Server.Mode,
		"db_driver", c.Database.Driver,
		"db", c.databaseTarget(),
		"allocation_mode", c.Budget.AllocationMode,
		"categories", len(c.Budget.Categories),
		"email", c.Email.Enabled,
		"amqp", c.AMQP.Enabled,
	)
}

func (c *Config) databaseTarget() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Path
	}
	return fmt.Sprintf("%s@%s:%s/%s", c.Database.Username, c.Database.Host, c.Database.Port, c.Database.DBName)
}
