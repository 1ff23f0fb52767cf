// Package testutil 测试辅助：内存 SQLite 与 sqlmock 数据库
package testutil

import (
	"testing"
	"time"

	"fintrack/config"
	"fintrack/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 创建已迁移的内存 SQLite 数据库，测试结束时自动关闭
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{
		Driver:   "sqlite",
		Path:     ":memory:",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// NewMockDB 创建基于 sqlmock 的 MySQL gorm 连接
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() { sqlDB.Close() })
	return gormDB, mock
}

// TestConfig 测试用配置，使用内置类别表
func TestConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		JWT:      config.JWTConfig{Secret: "test-jwt-secret-key", ExpireHours: 1, ExpireTime: time.Hour},
		Budget: config.BudgetConfig{
			AllocationMode: config.AllocationAdditive,
			CurrencyScale:  2,
			Categories: []config.CategoryConfig{
				{Name: "Food", Percentage: 15},
				{Name: "Transport", Percentage: 10},
				{Name: "Utilities", Percentage: 5},
				{Name: "Entertainment", Percentage: 10},
				{Name: "Shopping", Percentage: 10},
				{Name: "Healthcare", Percentage: 5},
				{Name: "Savings", Percentage: 15},
				{Name: "Other", Percentage: 30},
			},
		},
		Insights:     config.InsightsConfig{Horizon: 3, Timeout: 2 * time.Second},
		Notification: config.NotificationConfig{Timeout: 2 * time.Second},
		RateLimit:    config.RateLimitConfig{LoginAttempts: 100, LoginWindow: time.Minute},
	}
}
