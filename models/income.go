package models

import "time"

// Income 收入记录模型，与 User.Income 相互独立
type Income struct {
	Model
	UserID string    `json:"user_id" gorm:"size:36;index;not null"`
	Source string    `json:"source" gorm:"size:100;not null"`
	Amount float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Date   time.Time `json:"date" gorm:"column:received_at;not null"`
	User   User      `json:"-" gorm:"foreignKey:UserID"`
}

func (Income) TableName() string {
	return "incomes"
}
