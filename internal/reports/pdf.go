package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"flotilla/internal/models"
	"flotilla/internal/services"
)

// A4 portrait, millimetres. usableHeight is what remains between the
// top margin and the footer band.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginTop    = 15.0
	marginBottom = 25.0
	usableHeight = pageHeight - marginTop - marginBottom
	contentWidth = pageWidth - 2*marginLeft
)

// block is one laid-out unit of the statement: a pre-measured height
// and a draw function. Measuring up front lets pagination run as a
// pure pass over heights before anything touches the canvas.
type block struct {
	height float64
	draw   func(pdf *gofpdf.Fpdf, tr func(string) string)
}

// paginate assigns each block to a zero-based page index. A block that
// does not fit in the remaining space of the current page starts the
// next one; a block taller than a whole page still gets a page to
// itself rather than being dropped.
func paginate(heights []float64, usable float64) []int {
	pages := make([]int, len(heights))
	page := 0
	used := 0.0
	for i, h := range heights {
		if used > 0 && used+h > usable {
			page++
			used = 0
		}
		pages[i] = page
		used += h
	}
	return pages
}

// StatementData is everything the PDF statement renders.
type StatementData struct {
	Summary      services.InvestorFinancialSummary
	Buckets      []services.MonthlyBucket
	Transactions []Row
	GeneratedAt  time.Time
}

// BuildInvestorPDF renders a paginated financial statement for one
// investor: header, summary metrics, consolidated totals, per-vehicle
// breakdown, monthly table and the full transaction list. Every page
// carries a footer with the page number, total page count and
// generation timestamp.
func BuildInvestorPDF(data StatementData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AliasNbPages("")

	// Core fonts are cp1252; the translator handles the accented
	// Spanish labels.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	stamp := data.GeneratedAt.Format("02/01/2006 15:04")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-18)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5,
			tr(fmt.Sprintf("Página %d de {nb}", pdf.PageNo())),
			"", 1, "C", false, 0, "")
		pdf.CellFormat(0, 5, tr("Generado el "+stamp), "", 0, "C", false, 0, "")
	})

	blocks := buildBlocks(data)

	heights := make([]float64, len(blocks))
	for i, b := range blocks {
		heights[i] = b.height
	}
	pages := paginate(heights, usableHeight)

	current := -1
	for i, b := range blocks {
		if pages[i] != current {
			pdf.AddPage()
			current = pages[i]
		}
		b.draw(pdf, tr)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildBlocks assembles the statement as an ordered block list. Table
// rows are individual blocks so long tables split cleanly across
// pages.
func buildBlocks(data StatementData) []block {
	blocks := []block{
		titleBlock(),
		identityBlock(data.Summary, data.GeneratedAt),
		metricsBlock(data.Summary),
		sectionBlock("Totales consolidados"),
		totalsBlock(data.Summary),
	}

	if len(data.Summary.Vehicles) > 0 {
		blocks = append(blocks, sectionBlock("Desglose por vehículo"))
		blocks = append(blocks, vehicleHeaderBlock())
		for _, v := range data.Summary.Vehicles {
			blocks = append(blocks, vehicleRowBlock(v))
		}
	}

	if len(data.Buckets) > 0 {
		blocks = append(blocks, sectionBlock("Resumen mensual"))
		blocks = append(blocks, monthlyHeaderBlock())
		for _, b := range data.Buckets {
			blocks = append(blocks, monthlyRowBlock(b))
		}
	}

	if len(data.Transactions) > 0 {
		blocks = append(blocks, sectionBlock("Transacciones"))
		blocks = append(blocks, transactionHeaderBlock())
		for _, row := range data.Transactions {
			blocks = append(blocks, transactionRowBlock(row))
		}
	}

	return blocks
}

func titleBlock() block {
	return block{height: 20, draw: func(pdf *gofpdf.Fpdf, tr func(string) string) {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(contentWidth, 9, "Flotilla", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(contentWidth, 7, tr("Reporte financiero del inversionista"), "", 1, "L", false, 0, "")
		pdf.Ln(4)
	}}
}

func identityBlock(s services.InvestorFinancialSummary, generatedAt time.Time) block {
	return block{height: 16, draw: func(pdf *gofpdf.Fpdf, tr func(string) string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(contentWidth, 6, tr(s.InvestorName), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(contentWidth, 5, tr(s.Email), "", 1, "L", false, 0, "")
		pdf.CellFormat(contentWidth, 5, tr("Corte al "+generatedAt.Format("02/01/2006")), "", 1, "L", false, 0, "")
	}}
}

// metricsBlock draws the four headline figures in a filled band.
func metricsBlock(s services.InvestorFinancialSummary) block {
	return block{height: 26, draw: func(pdf *gofpdf.Fpdf, tr func(string) string) {
		pdf.Ln(2)
		cellW := contentWidth / 4

		pdf.SetFillColor(245, 246, 248)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(cellW, 6, tr("Vehículos"), "", 0, "C", true, 0, "")
		pdf.CellFormat(cellW, 6, "Ingresos", "", 0, "C", true, 0, "")
		pdf.CellFormat(cellW, 6, "Gastos", "", 0, "C", true, 0, "")
		pdf.CellFormat(cellW, 6, "Balance neto", "", 1, "C", true, 0, "")

		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(cellW, 10, fmt.Sprintf("%d", s.VehicleCount), "", 0, "C", true, 0, "")
		pdf.SetTextColor(25, 135, 84)
		pdf.CellFormat(cellW, 10, money(s.TotalIncome), "", 0, "C", true, 0, "")
		pdf.SetTextColor(220, 53, 69)
		pdf.CellFormat(cellW, 10, money(s.TotalExpenses), "", 0, "C", true, 0, "")
		if s.NetBalance.IsNegative() {
			pdf.SetTextColor(220, 53, 69)
		} else {
			pdf.SetTextColor(25, 135, 84)
		}
		pdf.CellFormat(cellW, 10, money(s.NetBalance), "", 1, "C", true, 0, "")
		pdf.Ln(4)
	}}
}

func sectionBlock(title string) block {
	return block{height: 12, draw: func(pdf *gofpdf.Fpdf, tr func(string) string) {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(contentWidth, 7, tr(title), "", 1, "L", false, 0, "")
		pdf.Ln(1)
	}}
}

var totalsCols = []float64{110, 70}

// totalsRows lists the label/value pairs of the consolidated totals
// table. Extracted so the table content is testable without rendering.
func totalsRows(s services.InvestorFinancialSummary) [][2]string {
	transactions := 0
	for _, v := range s.Vehicles {
		transactions += v.TransactionCount
	}

	rows := [][2]string{
		{"Ingresos totales", money(s.TotalIncome)},
		{"Gastos totales", money(s.TotalExpenses)},
		{"Balance neto", money(s.NetBalance)},
		{"Transacciones", fmt.Sprintf("%d", transactions)},
	}
	if s.LastTransactionDate != nil {
		rows = append(rows, [2]string{"Última transacción", s.LastTransactionDate.Format("02/01/2006")})
	}
	return rows
}

func totalsBlock(s services.InvestorFinancialSummary) block {
	rows := totalsRows(s)
	return block{height: float64(len(rows)) * 7, draw: func(pdf *gofpdf.Fpdf, tr func(string) string) {
		pdf.SetFont("Helvetica", "", 9)
		for _, row := range rows {
			pdf.SetTextColor(33, 37, 41)
			pdf.CellFormat(totalsCols[0], 7, tr(row[0]), "1", 0, "L", false, 0, "")
			pdf.CellFormat(totalsCols[1], 7, tr(row[1]), "1", 1, "R", false, 0, "")
		}
	}}
}

var vehicleCols = []float64{44, 26, 26, 26, 30, 28}

func vehicleHeaderBlock() block {
	return block{height: 7, draw: func(pdf *gofpdf.Fpdf, tr func(string) string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(233, 236, 239)
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(vehicleCols[0], 7, tr("Vehículo"), "1", 0, "L", true, 0, "")
		pdf.CellFormat(vehicleCols[1], 7, "Placa", "1", 0, "L", true, 0, "")
		pdf.CellFormat(vehicleCols[2], 7, "Ingresos", "1", 0, "R", true, 0, "")
		pdf.CellFormat(vehicleCols[3], 7, "Gastos", "1", 0, "R", true, 0, "")
		pdf.CellFormat(vehicleCols[4], 7, "Neto", "1", 0, "R", true, 0, "")
		pdf.CellFormat(vehicleCols[5], 7, "Transacciones", "1", 1, "R", true, 0, "")
	}}
}

// vehicleRowCells renders one vehicle's table cells as strings,
// extracted so the row content is testable without rendering.
func vehicleRowCells(v services.VehicleFinancials) []string {
	plate := ""
	if v.LicensePlate != nil {
		plate = *v.LicensePlate
	}
	return []string{
		v.Name,
		plate,
		money(v.TotalIncome),
		money(v.TotalExpenses),
		money(v.NetBalance),
		fmt.Sprintf("%d", v.TransactionCount),
	}
}

func vehicleRowBlock(v services.VehicleFinancials) block {
	return block{height: 7, draw: func(pdf *gofpdf.Fpdf, tr func(string) string) {
		cells := vehicleRowCells(v)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(vehicleCols[0], 7, tr(cells[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(vehicleCols[1], 7, tr(cells[1]), "1", 0, "L", false, 0, "")
		pdf.SetTextColor(25, 135, 84)
		pdf.CellFormat(vehicleCols[2], 7, cells[2], "1", 0, "R", false, 0, "")
		pdf.SetTextColor(220, 53, 69)
		pdf.CellFormat(vehicleCols[3], 7, cells[3], "1", 0, "R", false, 0, "")
		if v.NetBalance.IsNegative() {
			pdf.SetTextColor(220, 53, 69)
		} else {
			pdf.SetTextColor(25, 135, 84)
		}
		pdf.CellFormat(vehicleCols[4], 7, cells[4], "1", 0, "R", false, 0, "")
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(vehicleCols[5], 7, cells[5], "1", 1, "R", false, 0, "")
	}}
}

var monthlyCols = []float64{45, 45, 45, 45}

func monthlyHeaderBlock() block {
	return block{height: 7, draw: func(pdf *gofpdf.Fpdf, tr func(string) string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(233, 236, 239)
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(monthlyCols[0], 7, "Mes", "1", 0, "L", true, 0, "")
		pdf.CellFormat(monthlyCols[1], 7, "Ingresos", "1", 0, "R", true, 0, "")
		pdf.CellFormat(monthlyCols[2], 7, "Gastos", "1", 0, "R", true, 0, "")
		pdf.CellFormat(monthlyCols[3], 7, "Neto", "1", 1, "R", true, 0, "")
	}}
}

func monthlyRowBlock(b services.MonthlyBucket) block {
	return block{height: 7, draw: func(pdf *gofpdf.Fpdf, tr func(string) string) {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(monthlyCols[0], 7, b.Month, "1", 0, "L", false, 0, "")
		pdf.SetTextColor(25, 135, 84)
		pdf.CellFormat(monthlyCols[1], 7, money(b.Income), "1", 0, "R", false, 0, "")
		pdf.SetTextColor(220, 53, 69)
		pdf.CellFormat(monthlyCols[2], 7, money(b.Expenses), "1", 0, "R", false, 0, "")
		if b.Net.IsNegative() {
			pdf.SetTextColor(220, 53, 69)
		} else {
			pdf.SetTextColor(25, 135, 84)
		}
		pdf.CellFormat(monthlyCols[3], 7, money(b.Net), "1", 1, "R", false, 0, "")
	}}
}

var transactionCols = []float64{22, 18, 28, 48, 24, 40}

func transactionHeaderBlock() block {
	return block{height: 7, draw: func(pdf *gofpdf.Fpdf, tr func(string) string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(233, 236, 239)
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(transactionCols[0], 7, "Fecha", "1", 0, "L", true, 0, "")
		pdf.CellFormat(transactionCols[1], 7, "Tipo", "1", 0, "L", true, 0, "")
		pdf.CellFormat(transactionCols[2], 7, tr("Categoría"), "1", 0, "L", true, 0, "")
		pdf.CellFormat(transactionCols[3], 7, tr("Vehículo"), "1", 0, "L", true, 0, "")
		pdf.CellFormat(transactionCols[4], 7, "Monto", "1", 0, "R", true, 0, "")
		pdf.CellFormat(transactionCols[5], 7, tr("Descripción"), "1", 1, "L", true, 0, "")
	}}
}

func transactionRowBlock(r Row) block {
	return block{height: 7, draw: func(pdf *gofpdf.Fpdf, tr func(string) string) {
		amount := money(r.Amount)
		if r.Type == models.RecordTypeIncome {
			amount = "+" + amount
		} else {
			amount = "-" + amount
		}

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(transactionCols[0], 7, formatDate(r.Date), "1", 0, "L", false, 0, "")
		pdf.CellFormat(transactionCols[1], 7, localizeType(r.Type), "1", 0, "L", false, 0, "")
		pdf.CellFormat(transactionCols[2], 7, tr(truncate(r.Category, 18)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(transactionCols[3], 7, tr(truncate(r.VehicleName, 30)), "1", 0, "L", false, 0, "")
		if r.Type == models.RecordTypeIncome {
			pdf.SetTextColor(25, 135, 84)
		} else {
			pdf.SetTextColor(220, 53, 69)
		}
		pdf.CellFormat(transactionCols[4], 7, amount, "1", 0, "R", false, 0, "")
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(transactionCols[5], 7, tr(truncate(r.Description, 26)), "1", 1, "L", false, 0, "")
	}}
}

// money renders an amount with two fixed decimals and a dollar sign.
func money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// truncate clips cell text so a long value cannot overflow its column.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
