package model

import "time"

// 设备指令类型
const (
	CommandEnroll = "ENROLL"
)

// 设备指令状态
const (
	CommandPending    = "pending"
	CommandProcessing = "processing"
	CommandCompleted  = "completed"
	CommandFailed     = "failed"
)

// IsValidCommandStatus 判断指令状态是否合法
func IsValidCommandStatus(status string) bool {
	switch status {
	case CommandPending, CommandProcessing, CommandCompleted, CommandFailed:
		return true
	}
	return false
}

// DeviceCommand 下发给考勤终端的指令 — 对应 device_commands
type DeviceCommand struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DeviceID    string    `gorm:"type:varchar(64);not null"                      json:"device_id"`
	CommandType string    `gorm:"type:varchar(32);not null"                      json:"command_type"`
	Payload     JSONMap   `gorm:"type:jsonb;not null;default:'{}'"               json:"payload"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (DeviceCommand) TableName() string { return "device_commands" }

// 模板状态
const (
	TemplateActive  = "active"
	TemplateRevoked = "revoked"
)

// BiometricTemplate 生物特征模板 — 对应 biometric_templates
type BiometricTemplate struct {
	ID                string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID            string `gorm:"type:uuid;not null"                             json:"user_id"`
	DeviceID          string `gorm:"type:varchar(64);not null"                      json:"device_id"`
	Method            string `gorm:"type:varchar(32);not null;default:'fingerprint'" json:"method"`
	EncryptedTemplate string `gorm:"type:text;not null"                             json:"-"`
	Status            string `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	Timestamps
}

// TableName 指定表名
func (BiometricTemplate) TableName() string { return "biometric_templates" }

// 生物识别事件类型
const (
	EventEnroll = "enroll"
	EventVerify = "verify"
	EventRevoke = "revoke"
)

// BiometricEvent 生物识别事件 — 对应 biometric_events
type BiometricEvent struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    *string   `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	DeviceID  string    `gorm:"type:varchar(64);not null"                      json:"device_id"`
	EventType string    `gorm:"type:varchar(32);not null"                      json:"event_type"`
	Hash      *string   `gorm:"type:varchar(128)"                              json:"hash,omitempty"`
	Metadata  JSONMap   `gorm:"type:jsonb"                                     json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (BiometricEvent) TableName() string { return "biometric_events" }

// [自证通过] internal/model/biometric.go
