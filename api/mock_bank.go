package api

import (
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

type bankProvider interface {
	Accounts() []service.BankAccount
	Transactions() []service.BankTransaction
}

// MockBankHandler 模拟银行处理器
type MockBankHandler struct {
	bank bankProvider
}

// NewMockBankHandler 创建模拟银行处理器
func NewMockBankHandler(bank bankProvider) *MockBankHandler {
	return &MockBankHandler{bank: bank}
}

// LinkResponse 绑卡响应
type LinkResponse struct {
	LinkToken string `json:"link_token" example:"mock_link_token_12345"`
	Message   string `json:"message" example:"Mock bank account linked successfully"`
}

// AccountsResponse 账户列表响应
type AccountsResponse struct {
	Accounts []service.BankAccount `json:"accounts"`
	Message  string                `json:"message" example:"Mock bank accounts fetched successfully"`
}

// TransactionsResponse 流水列表响应
type TransactionsResponse struct {
	Transactions []service.BankTransaction `json:"transactions"`
	Message      string                    `json:"message" example:"Mock transactions fetched successfully"`
}

// Link 模拟绑定银行账户
// @Summary 模拟绑卡
// @Tags 模拟银行
// @Produce json
// @Security BearerAuth
// @Success 200 {object} LinkResponse "绑定成功"
// @Router /api/mock/bank/link [post]
func (h *MockBankHandler) Link(c *gin.Context) {
	Success(c, LinkResponse{LinkToken: service.MockLinkToken, Message: "Mock bank account linked successfully"})
}

// Accounts 模拟账户列表
// @Summary 模拟账户列表
// @Tags 模拟银行
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AccountsResponse "获取成功"
// @Router /api/mock/bank/accounts [get]
func (h *MockBankHandler) Accounts(c *gin.Context) {
	Success(c, AccountsResponse{Accounts: h.bank.Accounts(), Message: "Mock bank accounts fetched successfully"})
}

// Transactions 模拟流水
// @Summary 模拟流水
// @Description 每次请求随机生成 10 条流水
// @Tags 模拟银行
// @Produce json
// @Security BearerAuth
// @Success 200 {object} TransactionsResponse "获取成功"
// @Router /api/mock/bank/transactions [get]
func (h *MockBankHandler) Transactions(c *gin.Context) {
	Success(c, TransactionsResponse{Transactions: h.bank.Transactions(), Message: "Mock transactions fetched successfully"})
}
