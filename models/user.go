package models

// User 用户模型
type User struct {
	Model
	Name     string  `json:"name" gorm:"size:100;not null"`
	Email    string  `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Password string  `json:"-" gorm:"size:255;not null"`
	Income   float64 `json:"income" gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}
