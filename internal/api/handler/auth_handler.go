package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/dto"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/service"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc           service.AuthService
	minPasswordLength int
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService, minPasswordLength int) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, minPasswordLength: minPasswordLength}
}

// Login 用户名密码登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req, clientInfo(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Signup 创建用户（首个用户无需认证，之后仅管理员）
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	result, err := h.authSvc.Signup(c.Request.Context(), &req, sessionToken(c), clientInfo(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Created(c, result.Message, result)
}

// Logout 注销当前会话
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := sessionToken(c)
	if token == "" {
		response.BadRequest(c, 10001, "Token requerido")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), token, clientInfo(c)); err != nil {
		h.handleError(c, err)
		return
	}

	response.OKMessage(c, "Logout exitoso")
}

// Verify 校验会话并返回当前用户
// GET /api/v1/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	result, err := h.authSvc.Verify(c.Request.Context(), sessionToken(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, result)
}

// ResetPassword 管理员重置用户密码
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), &req, sessionToken(c), clientInfo(c)); err != nil {
		h.handleError(c, err)
		return
	}

	response.OKMessage(c, "Contraseña actualizada exitosamente")
}

func (h *AuthHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingCredentials),
		errors.Is(err, service.ErrSignupFields),
		errors.Is(err, service.ErrResetFields):
		response.BadRequest(c, 10001, err.Error())
	case errors.Is(err, service.ErrSessionMissing),
		errors.Is(err, service.ErrSessionInvalid):
		response.Unauthorized(c, 10002, err.Error())
	case errors.Is(err, service.ErrNotAdmin):
		response.Forbidden(c, 10003, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, 11001, err.Error())
	case errors.Is(err, service.ErrAccountJustLocked):
		response.Unauthorized(c, 11002, err.Error())
	case errors.Is(err, service.ErrAccountLocked):
		response.Forbidden(c, 11003, err.Error())
	case errors.Is(err, service.ErrPasswordTooShort):
		response.BadRequest(c, 11004, fmt.Sprintf("La contraseña debe tener al menos %d caracteres", h.minPasswordLength))
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 11005, err.Error())
	case errors.Is(err, service.ErrUserExists):
		response.Conflict(c, 11006, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11007, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/auth_handler.go
