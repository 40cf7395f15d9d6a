package reports

import (
	"sort"
	"time"

	"github.com/articotec/fieldgo/internal/models"
)

// maintenanceIntervalMonths is the service interval projected after a
// client's last completed order.
const maintenanceIntervalMonths = 4

// ActivityStatus is the traffic-light urgency of a client's next maintenance
type ActivityStatus string

const (
	ActivityRed       ActivityStatus = "red"        // >= 90% of the window elapsed
	ActivityYellow    ActivityStatus = "yellow"     // >= 60%
	ActivityGreen     ActivityStatus = "green"      // < 60%
	ActivityNoHistory ActivityStatus = "no_history" // no completed orders
)

// ActivityRow is one client in the maintenance activity report
type ActivityRow struct {
	ClientID      uint           `json:"client_id"`
	ClientName    string         `json:"client_name"`
	Phone         string         `json:"phone"`
	LastOrderDate *time.Time     `json:"last_order_date,omitempty"`
	ProjectedDate *time.Time     `json:"projected_date,omitempty"`
	DaysRemaining *int           `json:"days_remaining,omitempty"`
	Percentage    *float64       `json:"percentage,omitempty"`
	Status        ActivityStatus `json:"status"`
}

// ClientActivity projects each client's next maintenance date from their
// last completed order plus a fixed interval, and grades how much of that
// window has already elapsed. Clients without history sort last; the rest
// sort most urgent first, ties keeping input order.
func ClientActivity(clients []models.Client, orders []models.WorkOrder, today time.Time) []ActivityRow {
	today = dateOnly(today)

	// Latest completed scheduled date per client
	lastByClient := make(map[uint]time.Time)
	for _, order := range orders {
		if order.Status != models.OrderStatusCompleted || order.ClientID == nil || order.ScheduledDate == nil {
			continue
		}
		d := dateOnly(time.Time(*order.ScheduledDate))
		if prev, ok := lastByClient[*order.ClientID]; !ok || d.After(prev) {
			lastByClient[*order.ClientID] = d
		}
	}

	rows := make([]ActivityRow, 0, len(clients))
	for _, client := range clients {
		row := ActivityRow{
			ClientID:   client.ID,
			ClientName: client.Name,
			Phone:      client.Phone,
			Status:     ActivityNoHistory,
		}

		if last, ok := lastByClient[client.ID]; ok {
			projected := last.AddDate(0, maintenanceIntervalMonths, 0)
			totalDays := daysBetween(last, projected)
			daysElapsed := daysBetween(last, today)
			daysRemaining := daysBetween(today, projected)

			percentage := clamp(float64(daysElapsed)/float64(totalDays)*100, 0, 100)

			row.LastOrderDate = &last
			row.ProjectedDate = &projected
			row.DaysRemaining = &daysRemaining
			row.Percentage = &percentage
			row.Status = gradePercentage(percentage)
		}

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Status == ActivityNoHistory || rows[j].Status == ActivityNoHistory {
			return rows[i].Status != ActivityNoHistory && rows[j].Status == ActivityNoHistory
		}
		return *rows[i].Percentage > *rows[j].Percentage
	})

	return rows
}

func gradePercentage(p float64) ActivityStatus {
	switch {
	case p >= 90:
		return ActivityRed
	case p >= 60:
		return ActivityYellow
	default:
		return ActivityGreen
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
