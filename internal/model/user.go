package model

import "time"

// 应用角色，对应 app_role 枚举
const (
	RoleSuperadmin = "superadmin"
	RoleAdminRRHH  = "admin_rrhh"
)

// IsValidRole 判断是否为合法角色
func IsValidRole(role string) bool {
	return role == RoleSuperadmin || role == RoleAdminRRHH
}

// IsAdminRole 拥有管理权限的角色（目前两种角色均为管理员）
func IsAdminRole(role string) bool {
	return IsValidRole(role)
}

// User 系统用户 — 对应 users
type User struct {
	ID                  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username            *string    `gorm:"type:varchar(100);uniqueIndex"                  json:"username,omitempty"`
	Email               string     `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash        string     `gorm:"type:varchar(255);not null"                     json:"-"`
	FullName            string     `gorm:"type:varchar(200);not null"                     json:"full_name"`
	Phone               *string    `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	Department          *string    `gorm:"type:varchar(150)"                              json:"department,omitempty"`
	Position            *string    `gorm:"type:varchar(150)"                              json:"position,omitempty"`
	Status              string     `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	IsVerified          bool       `gorm:"not null;default:false"                         json:"is_verified"`
	IsLocked            bool       `gorm:"not null;default:false"                         json:"is_locked"`
	FailedLoginAttempts int        `gorm:"not null;default:0"                             json:"failed_login_attempts"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	Timestamps
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// UserRole 用户角色 — 对应 user_roles
type UserRole struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Role      string    `gorm:"type:app_role;not null"                         json:"role"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"                      json:"created_at"`
}

// TableName 指定表名
func (UserRole) TableName() string { return "user_roles" }

// UserSession 登录会话 — 对应 user_sessions
type UserSession struct {
	ID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID       string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Token        string    `gorm:"type:varchar(100);not null;uniqueIndex"         json:"token"`
	ExpiresAt    time.Time `gorm:"not null"                                       json:"expires_at"`
	IPAddress    *string   `gorm:"type:varchar(64)"                               json:"ip_address,omitempty"`
	UserAgent    *string   `gorm:"type:text"                                      json:"user_agent,omitempty"`
	LastActiveAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"last_active_at"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (UserSession) TableName() string { return "user_sessions" }

// Expired 会话是否已过期
func (s *UserSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// 审计动作
const (
	AuditLogin         = "login"
	AuditFailedLogin   = "failed_login"
	AuditLogout        = "logout"
	AuditSignup        = "signup"
	AuditPasswordReset = "password_reset"
)

// AuthAudit 认证审计日志 — 对应 auth_audit
type AuthAudit struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    *string   `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	Email     *string   `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	Action    string    `gorm:"type:varchar(50);not null"                      json:"action"`
	Success   bool      `gorm:"not null"                                       json:"success"`
	IPAddress *string   `gorm:"type:varchar(64)"                               json:"ip_address,omitempty"`
	UserAgent *string   `gorm:"type:text"                                      json:"user_agent,omitempty"`
	Metadata  JSONMap   `gorm:"type:jsonb"                                     json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (AuthAudit) TableName() string { return "auth_audit" }

// [自证通过] internal/model/user.go
