package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// technicianHeader is the column layout shared by the XLSX and PDF exports
var technicianHeader = []string{"Technician", "Pending", "In Progress", "Completed", "Cancelled", "Total"}

// TechnicianXLSX renders the orders-by-technician report as a spreadsheet
func TechnicianXLSX(rows []TechnicianRow, year int, month time.Month) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	title := fmt.Sprintf("Orders by Technician - %s %d", month.String(), year)
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}

	for col, name := range technicianHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 3)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []interface{}{row.TechnicianName, row.Pending, row.InProgress, row.Completed, row.Cancelled, row.Total}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+4)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ActivityXLSX renders the client maintenance activity report as a spreadsheet
func ActivityXLSX(rows []ActivityRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetCellValue(sheet, "A1", "Client Maintenance Activity"); err != nil {
		return nil, err
	}

	header := []string{"Client", "Phone", "Last Order", "Projected", "Days Remaining", "Percentage", "Status"}
	for col, name := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 3)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.ClientName,
			row.Phone,
			formatDate(row.LastOrderDate),
			formatDate(row.ProjectedDate),
			formatIntPtr(row.DaysRemaining),
			formatPercentage(row.Percentage),
			string(row.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+4)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TechnicianPDF renders the orders-by-technician report as a printable table
func TechnicianPDF(rows []TechnicianRow, year int, month time.Month) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Orders by Technician - %s %d", month.String(), year), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	colWidths := []float64{60, 26, 26, 26, 26, 26}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, name := range technicianHeader {
		pdf.CellFormat(colWidths[i], 8, name, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		if row.TechnicianName == "TOTAL" {
			pdf.SetFont("Arial", "B", 10)
		}
		pdf.CellFormat(colWidths[0], 7, row.TechnicianName, "1", 0, "L", false, 0, "")
		counts := []int{row.Pending, row.InProgress, row.Completed, row.Cancelled, row.Total}
		for i, n := range counts {
			pdf.CellFormat(colWidths[i+1], 7, fmt.Sprintf("%d", n), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		if row.TechnicianName == "TOTAL" {
			pdf.SetFont("Arial", "", 10)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, "Generated "+time.Now().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format("2006-01-02")
}

func formatIntPtr(n *int) string {
	if n == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d", *n)
}

func formatPercentage(p *float64) string {
	if p == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *p)
}
