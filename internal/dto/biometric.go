package dto

import "time"

// ── 设备接口 ──

// CommandStatusRequest 终端回报指令执行结果
type CommandStatusRequest struct {
	CommandID string                 `json:"command_id"`
	Status    string                 `json:"status"`
	Result    interface{}            `json:"result"` // 固件可能回传字符串或对象，原样保存
}

// AttendanceRequest 终端上报指纹打卡
type AttendanceRequest struct {
	BiometricID *int   `json:"biometric_id"`
	DeviceID    string `json:"device_id"`
}

// DeviceCommandResponse 下发给终端的指令
type DeviceCommandResponse struct {
	ID          string                 `json:"id"`
	DeviceID    string                 `json:"device_id"`
	CommandType string                 `json:"command_type"`
	Payload     map[string]interface{} `json:"payload"`
	Status      string                 `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
}

// PollResponse 轮询响应，无指令时 command 为 null
type PollResponse struct {
	Command *DeviceCommandResponse `json:"command"`
}

// PunchResponse 打卡结果
type PunchResponse struct {
	Type      string    `json:"type"` // Entrada | Salida
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name"`
}

// ── 管理接口 ──

// EnqueueEnrollRequest 创建指纹录入指令
type EnqueueEnrollRequest struct {
	DeviceID    string `json:"device_id"    binding:"required,max=64"`
	BiometricID int    `json:"biometric_id" binding:"required,min=1,max=127"`
	UserID      string `json:"user_id"      binding:"omitempty,uuid"`
}

// ListEventsRequest 事件查询参数
type ListEventsRequest struct {
	UserID string `form:"user_id" binding:"omitempty,uuid"`
	Limit  int    `form:"limit"   binding:"omitempty,min=1,max=200"`
}

// GetLimit 获取条数（默认 10）
func (r *ListEventsRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 10
	}
	return r.Limit
}
