package salary

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

func renderStatement(holder Holder, s SalaryInfo, month time.Time, lines []DeductionLine) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Salary Statement", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Salary Statement", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, month.Format("January 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	summary := [][2]string{
		{"Employee", holder.FullName},
		{"Employee code", holder.EmployeeCode},
		{"Base salary", s.BaseSalary.StringFixed(2)},
		{"Daily rate", s.DailyRate.StringFixed(2)},
		{"Total deductions", s.TotalDeductions.StringFixed(2)},
		{"Current salary", s.CurrentSalary.StringFixed(2)},
	}
	for _, kv := range summary {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 7, kv[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, kv[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	widths := []float64{35, 35, 80, 35}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Date", "Source", "Reference", "Amount"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(lines) == 0 {
		pdf.CellFormat(185, 7, "No deductions this month", "1", 1, "C", false, 0, "")
	}
	for _, l := range lines {
		pdf.CellFormat(widths[0], 7, l.OccurredOn.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, l.Source, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, truncate(l.Reference, 45), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, l.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s", time.Now().UTC().Format(time.RFC1123)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
