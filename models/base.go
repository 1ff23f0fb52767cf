package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model 通用主键与时间戳，主键为 UUID 字符串
type Model struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate 未指定主键时生成 UUID
func (m *Model) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
