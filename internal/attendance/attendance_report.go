package attendance

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	reportSheet = "Attendance"
)

var reportHeader = []string{"date", "employee", "status", "clock_in", "clock_out", "deduction"}

func toReportRow(a Attendance) ReportRow {
	row := ReportRow{
		Date:      a.AttendanceDate.Format(dateLayout),
		Status:    string(a.Status),
		Deduction: a.DeductionAmount.StringFixed(2),
	}
	if a.Employee != nil {
		row.Employee = a.Employee.FullName
	}
	if a.ClockIn != nil {
		row.ClockIn = a.ClockIn.Format(time.RFC3339)
	}
	if a.ClockOut != nil {
		row.ClockOut = a.ClockOut.Format(time.RFC3339)
	}
	return row
}

func (r ReportRow) values() []string {
	return []string{r.Date, r.Employee, r.Status, r.ClockIn, r.ClockOut, r.Deduction}
}

func writeCSV(w io.Writer, rows []ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeXLSX keeps every cell as text so values match the CSV export.
func writeXLSX(w io.Writer, rows []ReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return err
	}

	write := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = v
		}
		return f.SetSheetRow(reportSheet, cell, &cells)
	}

	if err := write(1, reportHeader); err != nil {
		return err
	}
	for i, r := range rows {
		if err := write(i+2, r.values()); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}
