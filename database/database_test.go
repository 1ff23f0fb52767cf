package database

import (
	"testing"

	"fintrack/config"
	"fintrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(&config.DatabaseConfig{
		Host:     "db",
		Port:     "3306",
		Username: "u",
		Password: "p",
		DBName:   "fintrack",
	})
	assert.Equal(t, "u:p@tcp(db:3306)/fintrack?charset=utf8mb4&parseTime=True&loc=UTC", dsn)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, parseLogLevel("silent"))
	assert.Equal(t, logger.Info, parseLogLevel("INFO"))
	assert.Equal(t, logger.Warn, parseLogLevel(""))
}

func TestOpenSQLiteMemoryAndMigrate(t *testing.T) {
	db, err := Open(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "budgets", "expenses", "incomes", "goals", "recurring_expenses"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasColumn(&models.Budget{}, "limit_amount"))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
