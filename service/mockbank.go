package service

import (
	"math/rand"
	"sync"
	"time"

	"fintrack/models"

	"github.com/google/uuid"
)

// BankAccount 模拟银行账户
type BankAccount struct {
	AccountID string  `json:"account_id"`
	Name      string  `json:"name"`
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency"`
}

// BankTransaction 模拟银行流水
type BankTransaction struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
}

// MockLinkToken 模拟绑卡令牌
const MockLinkToken = "mock_link_token_12345"

var (
	mockTransactionCategories = []string{"Groceries", "Dining", "Transport", "Entertainment"}
	mockDescriptions          = []string{
		"Card payment at local store",
		"Online purchase",
		"Monthly subscription",
		"Coffee with friends",
		"Ride to the office",
		"Weekend cinema tickets",
		"Farmers market",
	}
)

// MockBank 生成模拟银行数据，不对接真实银行
type MockBank struct {
	mu   sync.Mutex
	rand *rand.Rand
	now  func() time.Time
}

// NewMockBank 创建模拟银行，seed 相同则生成相同的流水金额与类别
func NewMockBank(seed int64) *MockBank {
	return &MockBank{rand: rand.New(rand.NewSource(seed)), now: time.Now}
}

// Accounts 固定的模拟账户
func (b *MockBank) Accounts() []BankAccount {
	return []BankAccount{
		{AccountID: "mock_account_123", Name: "Savings Account", Balance: 1000.00, Currency: "LKR"},
		{AccountID: "mock_account_456", Name: "Checking Account", Balance: 500.00, Currency: "LKR"},
	}
}

// Transactions 生成 10 条今年内的随机流水，金额在 0 到 9.99 之间
func (b *MockBank) Transactions() []BankTransaction {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now().UTC()
	startOfYear := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	days := int(now.Sub(startOfYear).Hours()/24) + 1

	txs := make([]BankTransaction, 0, 10)
	for i := 0; i < 10; i++ {
		date := startOfYear.AddDate(0, 0, b.rand.Intn(days))
		txs = append(txs, BankTransaction{
			TransactionID: uuid.NewString(),
			Amount:        float64(b.rand.Intn(1000)) / 100,
			Date:          date.Format(models.DateLayout),
			Description:   mockDescriptions[b.rand.Intn(len(mockDescriptions))],
			Category:      mockTransactionCategories[b.rand.Intn(len(mockTransactionCategories))],
		})
	}
	return txs
}
