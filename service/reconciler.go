package service

import (
	"fintrack/models"

	"github.com/shopspring/decimal"
)

// BudgetStatus 预算执行情况
type BudgetStatus struct {
	ID               string  `json:"id"`
	Category         string  `json:"category"`
	Limit            float64 `json:"limit"`
	IncomePercentage float64 `json:"income_percentage"`
	Spent            float64 `json:"spent"`
	Remaining        float64 `json:"remaining"`
}

// SpentByCategory 按类别汇总支出，类别精确匹配（区分大小写）
func SpentByCategory(expenses []models.Expense) map[string]decimal.Decimal {
	spent := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		spent[e.Category] = spent[e.Category].Add(decimal.NewFromFloat(e.Amount))
	}
	return spent
}

// Reconcile 计算每个预算的已花费与剩余额度，剩余可以为负数
func Reconcile(budgets []models.Budget, expenses []models.Expense) []BudgetStatus {
	spent := SpentByCategory(expenses)
	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		s := spent[b.Category]
		out = append(out, BudgetStatus{
			ID:               b.ID,
			Category:         b.Category,
			Limit:            b.Limit,
			IncomePercentage: b.IncomePercentage,
			Spent:            s.InexactFloat64(),
			Remaining:        decimal.NewFromFloat(b.Limit).Sub(s).InexactFloat64(),
		})
	}
	return out
}

// SumAmounts 按十进制累加金额，避免浮点误差累积
func SumAmounts(amounts []float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.InexactFloat64()
}
