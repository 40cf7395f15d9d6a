package reports

import (
	"time"

	"github.com/articotec/fieldgo/internal/models"
)

// TechnicianRow is one row of the orders-by-technician report. The synthetic
// unassigned and TOTAL rows carry a nil TechnicianID.
type TechnicianRow struct {
	TechnicianID   *uint  `json:"technician_id,omitempty"`
	TechnicianName string `json:"technician_name"`
	Pending        int    `json:"pending"`
	InProgress     int    `json:"in_progress"`
	Completed      int    `json:"completed"`
	Cancelled      int    `json:"cancelled"`
	Total          int    `json:"total"`
}

// OrdersByTechnician counts orders scheduled in the given calendar month by
// technician and status. Every technician gets a row even with zero orders;
// an unassigned row appears only when the month has unassigned orders; the
// final TOTAL row sums every column.
func OrdersByTechnician(technicians []models.Technician, orders []models.WorkOrder, year int, month time.Month) []TechnicianRow {
	inMonth := make([]models.WorkOrder, 0, len(orders))
	for _, order := range orders {
		if order.ScheduledDate == nil {
			continue
		}
		d := time.Time(*order.ScheduledDate)
		if d.Year() == year && d.Month() == month {
			inMonth = append(inMonth, order)
		}
	}

	rows := make([]TechnicianRow, 0, len(technicians)+2)
	for _, tech := range technicians {
		id := tech.ID
		row := TechnicianRow{TechnicianID: &id, TechnicianName: tech.Name}
		for _, order := range inMonth {
			if order.TechnicianID != nil && *order.TechnicianID == tech.ID {
				tally(&row, order.Status)
			}
		}
		rows = append(rows, row)
	}

	unassigned := TechnicianRow{TechnicianName: "Unassigned"}
	for _, order := range inMonth {
		if order.TechnicianID == nil {
			tally(&unassigned, order.Status)
		}
	}
	if unassigned.Total > 0 {
		rows = append(rows, unassigned)
	}

	total := TechnicianRow{TechnicianName: "TOTAL"}
	for _, row := range rows {
		total.Pending += row.Pending
		total.InProgress += row.InProgress
		total.Completed += row.Completed
		total.Cancelled += row.Cancelled
		total.Total += row.Total
	}
	rows = append(rows, total)

	return rows
}

func tally(row *TechnicianRow, status models.OrderStatus) {
	switch status {
	case models.OrderStatusPending:
		row.Pending++
	case models.OrderStatusInProgress:
		row.InProgress++
	case models.OrderStatusCompleted:
		row.Completed++
	case models.OrderStatusCancelled:
		row.Cancelled++
	}
	row.Total++
}
