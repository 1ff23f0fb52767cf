package models

// Goal 储蓄目标
type Goal struct {
	Model
	UserID       string  `json:"user_id" gorm:"size:36;index;not null"`
	GoalName     string  `json:"goal_name" gorm:"size:100;not null"`
	TargetAmount float64 `json:"target_amount" gorm:"type:decimal(12,2);not null"`
	SavedAmount  float64 `json:"saved_amount" gorm:"type:decimal(12,2);not null;default:0"`
	TargetDate   *Date   `json:"target_date" gorm:"type:date"`
	User         User    `json:"-" gorm:"foreignKey:UserID"`
}

func (Goal) TableName() string {
	return "goals"
}
