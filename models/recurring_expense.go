package models

// RecurringExpense 周期性支出
type RecurringExpense struct {
	Model
	UserID    string  `json:"user_id" gorm:"size:36;index;not null"`
	Amount    float64 `json:"amount" gorm:"type:decimal(12,2);not null"`
	Category  string  `json:"category" gorm:"size:50;not null"`
	Frequency string  `json:"frequency" gorm:"size:20;not null"` // daily/weekly/monthly/yearly
	NextDate  Date    `json:"next_date" gorm:"type:date;not null"`
	User      User    `json:"-" gorm:"foreignKey:UserID"`
}

func (RecurringExpense) TableName() string {
	return "recurring_expenses"
}
