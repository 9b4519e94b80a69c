package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/model"
)

// ── 假期申请单排版 ──
// 单位 pt，A4 纵向，坐标原点在左上角

type rgb struct{ r, g, b int }

var (
	colorBlue      = rgb{38, 89, 217}
	colorGrayText  = rgb{128, 128, 128}
	colorGrayLine  = rgb{230, 230, 230}
	colorBlack     = rgb{26, 26, 26}
	colorApproved  = rgb{0, 153, 0}
	colorRejected  = rgb{230, 51, 51}
	colorNote      = rgb{102, 102, 102}
)

// vacationSheet 申请单中展示的数据
type vacationSheet struct {
	RequestID     string
	Approved      bool
	FullName      string
	EmployeeNo    string
	Department    string
	Position      string
	StartDate     string
	EndDate       string
	DaysRequested int
	Notes         string
}

// newVacationSheet 从申请记录提取展示字段（缺省值与纸质表单一致）
func newVacationSheet(req *model.VacationRequest, status string) vacationSheet {
	sheet := vacationSheet{
		RequestID:     req.ID,
		Approved:      status == model.VacationApproved,
		FullName:      "---",
		EmployeeNo:    "S/N",
		Department:    "General",
		Position:      "General",
		StartDate:     req.StartDate.Format("02/01/2006"),
		EndDate:       req.EndDate.Format("02/01/2006"),
		DaysRequested: req.DaysRequested,
		Notes:         "Sin observaciones registradas.",
	}
	if p := req.Profile; p != nil {
		if p.FullName != "" {
			sheet.FullName = p.FullName
		}
		switch {
		case p.EmployeeNumber != nil && *p.EmployeeNumber != "":
			sheet.EmployeeNo = *p.EmployeeNumber
		case p.UserID != nil:
			sheet.EmployeeNo = *p.UserID
		}
		if d := p.DepartmentName(); d != "" {
			sheet.Department = d
		}
		if t := p.PositionTitle(); t != "" {
			sheet.Position = t
		}
	}
	if req.EmployeeNote != nil && strings.TrimSpace(*req.EmployeeNote) != "" {
		sheet.Notes = *req.EmployeeNote
	}
	return sheet
}

// renderVacationPDF 生成单页假期申请单
func renderVacationPDF(sheet vacationSheet) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetTitle("Solicitud de vacaciones", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	w, h := pdf.GetPageSize()

	text := func(x, y float64, style string, size float64, c rgb, s string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.SetTextColor(c.r, c.g, c.b)
		pdf.Text(x, y, tr(s))
	}
	line := func(x1, y1, x2, y2, width float64, c rgb) {
		pdf.SetDrawColor(c.r, c.g, c.b)
		pdf.SetLineWidth(width)
		pdf.Line(x1, y1, x2, y2)
	}
	box := func(x, y, bw, bh, width float64, c rgb) {
		pdf.SetDrawColor(c.r, c.g, c.b)
		pdf.SetLineWidth(width)
		pdf.Rect(x, y, bw, bh, "D")
	}
	section := func(y float64, title string) {
		pdf.SetDrawColor(colorBlue.r, colorBlue.g, colorBlue.b)
		pdf.SetLineWidth(1.5)
		pdf.Circle(60, y-3, 3, "D")
		text(75, y, "B", 9, colorBlue, title)
		line(50, y+10, w-50, y+10, 0.5, colorGrayLine)
	}

	// 1. 页面边框
	box(25, 25, w-50, h-50, 2, colorBlue)

	// 2. 页眉
	y := 70.0
	text(50, y, "B", 32, colorBlue, "RRHH")
	text(50, y+15, "B", 8, colorGrayText, "GESTIÓN DE CAPITAL HUMANO")
	text(w-260, y, "B", 14, colorBlack, "SOLICITUD DE VACACIONES")
	text(w-100, y+12, "", 8, colorGrayText, "ID: "+shortID(sheet.RequestID))

	label, stamp := "RECHAZADO", colorRejected
	if sheet.Approved {
		label, stamp = "AUTORIZADO", colorApproved
	}
	box(w-130, y+20, 80, 20, 1, colorGrayText)
	text(w-124, y+34, "B", 9, stamp, label)

	// 3. 员工信息
	y += 100
	section(y, "INFORMACIÓN DEL COLABORADOR")
	y += 40
	col1, col2 := 60.0, 300.0
	text(col1, y, "B", 7, colorGrayText, "NOMBRE COMPLETO")
	text(col2, y, "B", 7, colorGrayText, "NO. EMPLEADO")
	y += 15
	text(col1, y, "B", 12, colorBlack, sheet.FullName)
	text(col2, y, "", 12, colorBlack, sheet.EmployeeNo)
	y += 30
	text(col1, y, "B", 7, colorGrayText, "DEPARTAMENTO")
	text(col2, y, "B", 7, colorGrayText, "PUESTO")
	y += 15
	text(col1, y, "", 11, colorBlack, sheet.Department)
	text(col2, y, "", 11, colorBlack, sheet.Position)

	// 4. 假期区间
	y += 60
	section(y, "DETALLE DEL PERIODO")
	y += 40
	boxTop, boxH := y-30, 60.0
	box(60, boxTop, 140, boxH, 1, colorGrayLine)
	text(95, boxTop+20, "B", 7, colorBlue, "DESDE EL DÍA")
	text(90, boxTop+45, "B", 14, colorBlack, sheet.StartDate)
	box(220, boxTop, 140, boxH, 1, colorGrayLine)
	text(255, boxTop+20, "B", 7, colorBlue, "HASTA EL DÍA")
	text(250, boxTop+45, "B", 14, colorBlack, sheet.EndDate)
	text(400, boxTop+20, "B", 7, colorGrayText, "DÍAS SOLICITADOS")
	text(440, boxTop+50, "B", 24, colorGrayText, fmt.Sprintf("%d", sheet.DaysRequested))

	// 5. 备注
	y += 80
	text(60, y, "B", 7, colorGrayText, "OBSERVACIONES / MOTIVO")
	y += 10
	box(60, y, w-120, 70, 1, colorGrayLine)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(colorNote.r, colorNote.g, colorNote.b)
	pdf.SetXY(75, y+12)
	pdf.MultiCell(w-150, 12, tr(sheet.Notes), "", "L", false)

	// 6. 签名
	firmY := h - 100
	line(80, firmY, 250, firmY, 1.5, colorBlack)
	text(80, firmY+15, "B", 9, colorBlack, sheet.FullName)
	text(80, firmY+28, "", 6, colorGrayText, "FIRMA COLABORADOR")
	line(350, firmY, 500, firmY, 1.5, colorBlack)
	text(350, firmY+15, "B", 9, colorBlack, "RECURSOS HUMANOS")
	text(350, firmY+28, "", 6, colorGrayText, "AUTORIZACIÓN")

	// 7. 页脚
	text(160, h-35, "B", 7, colorBlue, "DEPARTAMENTO DE RECURSOS HUMANOS - DOCUMENTO OFICIAL")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// shortID 申请编号前 8 位大写
func shortID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}
