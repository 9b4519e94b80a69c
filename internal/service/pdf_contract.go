package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/AlanDanielGC/hr-hub-main-sub001/config"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/model"
)

// ── 劳动合同排版 ──
// 单位 mm，A4 纵向

var mxPrinter = message.NewPrinter(language.MustParse("es-MX"))

// x/text 不提供日期本地化，月份名单独维护
var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// formatSalary 按 es-MX 习惯格式化金额，最多两位小数
func formatSalary(salary *float64) string {
	if salary == nil || *salary == 0 {
		return "$0"
	}
	return "$" + mxPrinter.Sprint(number.Decimal(*salary, number.MaxFractionDigits(2)))
}

// formatLongDate 例如 "1 de marzo de 2026"
func formatLongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// contractSheet 合同中使用的数据
type contractSheet struct {
	Company      config.CompanyConfig
	EmployeeName string
	Position     string
	Salary       string
	StartDate    string
	Address      string
	RFC          string
	CURP         string
	NSS          string
}

func newContractSheet(company config.CompanyConfig, c *model.Contract, candidate *model.RecruitmentCandidate) contractSheet {
	sheet := contractSheet{
		Company:   company,
		Position:  c.Position,
		Salary:    formatSalary(c.Salary),
		StartDate: formatLongDate(c.StartDate),
		Address:   "México",
		RFC:       "N/A",
		CURP:      "N/A",
		NSS:       "N/A",
	}
	if c.User != nil {
		sheet.EmployeeName = c.User.FullName
	}
	if candidate != nil {
		sheet.Address = valueOr(candidate.Address, sheet.Address)
		sheet.RFC = valueOr(candidate.RFC, sheet.RFC)
		sheet.CURP = valueOr(candidate.CURP, sheet.CURP)
		sheet.NSS = valueOr(candidate.NSS, sheet.NSS)
	}
	return sheet
}

// clauses 合同条款
func (s contractSheet) clauses() [][2]string {
	return [][2]string{
		{"PRIMERA.-", fmt.Sprintf(`"EL PATRÓN" contrata a "EL TRABAJADOR" por tiempo indeterminado para prestar sus servicios personales y subordinados con el puesto de %s.`, s.Position)},
		{"SEGUNDA.-", `"EL TRABAJADOR" se obliga a prestar sus servicios en el domicilio de "EL PATRÓN" o en el lugar que este último le asigne.`},
		{"TERCERA.-", `La duración de la jornada de trabajo será de 48 horas semanales, distribuidas de acuerdo a las necesidades de "EL PATRÓN", disfrutando de un día de descanso por cada seis días de trabajo.`},
		{"CUARTA.-", fmt.Sprintf(`"EL TRABAJADOR" percibirá por la prestación de sus servicios un salario mensual bruto de %s MXN, el cual será pagado los días 15 y 30 de cada mes.`, s.Salary)},
		{"QUINTA.-", `"EL TRABAJADOR" disfrutará de las vacaciones, prima vacacional y aguinaldo conforme a lo establecido en la Ley Federal del Trabajo.`},
		{"SEXTA.-", `"EL PATRÓN" inscribirá a "EL TRABAJADOR" ante el Instituto Mexicano del Seguro Social (IMSS).`},
		{"SÉPTIMA.-", `Ambas partes convienen que lo no previsto en este contrato se regirá por lo dispuesto en la Ley Federal del Trabajo.`},
		{"OCTAVA.-", fmt.Sprintf(`El presente contrato entra en vigor a partir del día %s.`, s.StartDate)},
	}
}

// renderContractPDF 生成无固定期限劳动合同
func renderContractPDF(s contractSheet) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Contrato individual de trabajo", true)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// 标题
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr("CONTRATO INDIVIDUAL DE TRABAJO POR TIEMPO INDETERMINADO"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// 序言
	pdf.SetFont("Helvetica", "", 10)
	intro := fmt.Sprintf(`CONTRATO INDIVIDUAL DE TRABAJO POR TIEMPO INDETERMINADO QUE CELEBRAN POR UNA PARTE %s, REPRESENTADA EN ESTE ACTO POR %s, A QUIEN EN LO SUCESIVO SE LE DENOMINARÁ "EL PATRÓN", Y POR LA OTRA %s, A QUIEN EN LO SUCESIVO SE LE DENOMINARÁ "EL TRABAJADOR", AL TENOR DE LAS SIGUIENTES DECLARACIONES Y CLÁUSULAS:`,
		s.Company.Name, s.Company.LegalRepresentative, strings.ToUpper(s.EmployeeName))
	pdf.MultiCell(180, 5, tr(intro), "", "J", false)
	pdf.Ln(6)

	// 声明
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, tr("DECLARACIONES"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	declare := func(indent float64, txt string) {
		pdf.SetX(15 + indent)
		pdf.MultiCell(180-indent, 5, tr(txt), "", "L", false)
	}
	declare(0, `I. DECLARA "EL PATRÓN":`)
	declare(5, "a) Ser una sociedad legalmente constituida conforme a las leyes mexicanas.")
	declare(5, fmt.Sprintf("b) Tener su domicilio en: %s.", s.Company.Address))
	declare(5, fmt.Sprintf("c) Que requiere los servicios de una persona para desempeñar el puesto de %s.", s.Position))
	pdf.Ln(4)
	declare(0, `II. DECLARA "EL TRABAJADOR":`)
	declare(5, "a) Llamarse como ha quedado escrito, ser de nacionalidad mexicana.")
	declare(5, fmt.Sprintf("b) Tener su domicilio en: %s.", s.Address))
	declare(5, fmt.Sprintf("c) Con Registro Federal de Contribuyentes (RFC): %s.", s.RFC))
	declare(5, fmt.Sprintf("d) Con Clave Única de Registro de Población (CURP): %s.", s.CURP))
	declare(5, fmt.Sprintf("e) Con Número de Seguridad Social (NSS): %s.", s.NSS))
	pdf.Ln(6)

	// 条款
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, tr("CLÁUSULAS"), "", 1, "L", false, 0, "")
	for _, c := range s.clauses() {
		y := pdf.GetY()
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Text(15, y+4, tr(c[0]))
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetXY(38, y)
		pdf.MultiCell(150, 5, tr(c[1]), "", "J", false)
		pdf.Ln(3)
	}
	pdf.Ln(8)

	// 签名
	if pdf.GetY() > 240 {
		pdf.AddPage()
	}
	y := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(40, y, tr(`"EL PATRÓN"`))
	pdf.Text(130, y, tr(`"EL TRABAJADOR"`))
	y += 20
	pdf.SetLineWidth(0.3)
	pdf.Line(25, y, 85, y)
	pdf.Line(115, y, 175, y)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(25, y+1)
	pdf.CellFormat(60, 5, tr(s.Company.LegalRepresentative), "", 0, "C", false, 0, "")
	pdf.SetXY(115, y+1)
	pdf.CellFormat(60, 5, tr(s.EmployeeName), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func valueOr(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return *v
}
