package dto

import "time"

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量（含默认值）
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// DateRangeRequest 日期区间参数（YYYY-MM-DD）
type DateRangeRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to"   binding:"omitempty,datetime=2006-01-02"`
}

// Parse 解析区间，空值返回 nil
func (r *DateRangeRequest) Parse() (from, to *time.Time, err error) {
	if r.From != "" {
		t, err := time.Parse("2006-01-02", r.From)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if r.To != "" {
		t, err := time.Parse("2006-01-02", r.To)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}

// ── 考勤 ──

// ListAttendanceRequest 考勤列表查询
type ListAttendanceRequest struct {
	PaginationRequest
	DateRangeRequest
	UserID string `form:"user_id" binding:"omitempty,uuid"`
}

// AttendanceResponse 考勤记录
type AttendanceResponse struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	FullName       string     `json:"full_name,omitempty"`
	AttendanceDate string     `json:"attendance_date"`
	ScheduledStart string     `json:"scheduled_start"`
	ScheduledEnd   string     `json:"scheduled_end"`
	CheckIn        *time.Time `json:"check_in"`
	CheckOut       *time.Time `json:"check_out"`
	MinutesLate    int        `json:"minutes_late"`
	Status         string     `json:"status"`
	Notes          *string    `json:"notes,omitempty"`
}
