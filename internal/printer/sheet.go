package printer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/articotec/fieldgo/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// OrderSheetPDF renders a printable work order sheet with a QR code that
// encodes the order reference, for technicians taking paper into the field.
func OrderSheetPDF(order *models.WorkOrder, usage []models.OrderMaterialUsage) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	reference := fmt.Sprintf("WO-%06d", order.ID)

	qrPng, err := qrcode.Encode(reference, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	_ = pdf.RegisterImageOptionsReader("qr_order", imgOptions, bytes.NewReader(qrPng))
	pdf.ImageOptions("qr_order", 165, 12, 32, 32, false, imgOptions, 0, "")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(150, 10, "Work Order "+reference, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(150, 7, order.Title, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeField := func(label, value string) {
		if value == "" {
			value = "-"
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(110, 7, value, "", 1, "L", false, 0, "")
	}

	clientName := ""
	if order.Client != nil {
		clientName = order.Client.Name
	}
	technicianName := ""
	if order.Technician != nil {
		technicianName = order.Technician.Name
	}
	scheduled := ""
	if order.ScheduledDate != nil {
		scheduled = time.Time(*order.ScheduledDate).Format("2006-01-02")
		if order.ScheduledTime != "" {
			scheduled += " " + order.ScheduledTime
		}
	}

	writeField("Client", clientName)
	writeField("Technician", technicianName)
	writeField("Status", string(order.Status))
	writeField("Priority", string(order.Priority))
	writeField("Scheduled", scheduled)
	pdf.Ln(4)

	if order.Description != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, "Description", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, order.Description, "", "L", false)
		pdf.Ln(4)
	}

	if len(usage) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, "Materials Used", "", 1, "L", false, 0, "")
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(100, 7, "Material", "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 7, "Quantity", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 7, "Unit", "1", 1, "C", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, u := range usage {
			pdf.CellFormat(100, 7, u.Material.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, fmt.Sprintf("%d", u.Quantity), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 7, u.Material.Unit, "1", 1, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
