package repository

import (
	"context"

	"fintrack/models"

	"gorm.io/gorm"
)

// UserRepository 用户仓储
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户，邮箱冲突时返回 ErrDuplicate
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

// FindByID 按 ID 查询用户
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByEmail 按邮箱查询用户
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// UpdateIncome 更新用户收入
func (r *UserRepository) UpdateIncome(ctx context.Context, id string, income float64) error {
	return r.updateColumn(ctx, id, "income", income)
}

// UpdatePassword 更新密码哈希
func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.updateColumn(ctx, id, "password", hash)
}

// ListIDs 返回所有用户 ID
func (r *UserRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.User{}).Order("created_at ASC").Pluck("id", &ids).Error
	return ids, translateError(err)
}

func (r *UserRepository) updateColumn(ctx context.Context, id, column string, value interface{}) error {
	// MySQL 在值未变化时 RowsAffected 为 0，先确认存在再更新
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value).Error
	return translateError(err)
}
