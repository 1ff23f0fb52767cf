package models

import "time"

// Expense 消费记录模型
type Expense struct {
	Model
	UserID   string    `json:"user_id" gorm:"size:36;index;not null"`
	Amount   float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Category string    `json:"category" gorm:"size:50;not null"`
	Date     time.Time `json:"date" gorm:"column:occurred_at;not null"`
	User     User      `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}
