package models

// Budget 预算模型
// 同一用户同一类别允许存在多条记录，不做唯一约束
type Budget struct {
	Model
	UserID           string  `json:"user_id" gorm:"size:36;index;not null"`
	Category         string  `json:"category" gorm:"size:50;not null"`
	Limit            float64 `json:"limit" gorm:"column:limit_amount;type:decimal(12,2);not null"`
	IncomePercentage float64 `json:"income_percentage" gorm:"type:decimal(5,2);not null;default:0"`
	User             User    `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Budget) TableName() string {
	return "budgets"
}
