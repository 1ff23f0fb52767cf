package repository

import (
	"context"

	"gorm.io/gorm"
)

// LedgerRepository 按用户隔离的通用记录仓储
// 所有按 ID 的操作都附带 user_id 条件，不属于当前用户的记录与不存在的记录返回同一个 ErrNotFound
type LedgerRepository[T any] struct {
	db *gorm.DB
}

// NewLedgerRepository 创建记录仓储
func NewLedgerRepository[T any](db *gorm.DB) *LedgerRepository[T] {
	return &LedgerRepository[T]{db: db}
}

// List 按创建时间升序返回用户的全部记录
func (r *LedgerRepository[T]) List(ctx context.Context, userID string) ([]T, error) {
	items := make([]T, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// Get 查询单条记录
func (r *LedgerRepository[T]) Get(ctx context.Context, userID, id string) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

// Create 新增记录
func (r *LedgerRepository[T]) Create(ctx context.Context, item *T) error {
	return translateError(r.db.WithContext(ctx).Create(item).Error)
}

// Update 更新指定字段并返回更新后的记录
func (r *LedgerRepository[T]) Update(ctx context.Context, userID, id string, fields map[string]interface{}) (*T, error) {
	var updated *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item T
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&item).Updates(fields).Error; err != nil {
				return err
			}
			if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
				return err
			}
		}
		updated = &item
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return updated, nil
}

// Delete 删除记录（软删除）
func (r *LedgerRepository[T]) Delete(ctx context.Context, userID, id string) error {
	var item T
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&item)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
