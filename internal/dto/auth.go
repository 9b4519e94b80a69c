package dto

import (
	"time"

	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/model"
)

// ── 认证模块请求 ──

// LoginRequest 登录请求（必填项在 Service 中校验，以返回统一提示）
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest 创建用户请求
type SignupRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"`
}

// ResetPasswordRequest 管理员重置密码请求
type ResetPasswordRequest struct {
	UserID      string `json:"user_id"`
	NewPassword string `json:"new_password"`
}

// ClientInfo 请求来源，写入会话与审计
type ClientInfo struct {
	IP        string
	UserAgent string
}

// ── 认证模块响应 ──

// UserInfo 登录/校验返回的用户信息
type UserInfo struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	FullName   string  `json:"full_name"`
	Phone      *string `json:"phone"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	Status     string  `json:"status"`
}

// SessionInfo 会话令牌
type SessionInfo struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	User    UserInfo    `json:"user"`
	Session SessionInfo `json:"session"`
	Roles   []string    `json:"roles"`
}

// VerifyResponse 会话校验响应
type VerifyResponse struct {
	User  UserInfo `json:"user"`
	Roles []string `json:"roles"`
}

// CreatedUser 新建用户简要信息
type CreatedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// SignupResponse 创建用户响应
type SignupResponse struct {
	Message string      `json:"message"`
	User    CreatedUser `json:"user"`
}

// Principal 已认证的会话主体（中间件写入上下文）
type Principal struct {
	UserID string
	Token  string
	Roles  []string
}

// IsAdmin 是否拥有管理员角色
func (p *Principal) IsAdmin() bool {
	for _, r := range p.Roles {
		if model.IsAdminRole(r) {
			return true
		}
	}
	return false
}
