package reports

import (
	"testing"
	"time"

	"github.com/articotec/fieldgo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthOrder(techID *uint, status models.OrderStatus, y int, m time.Month, d int) models.WorkOrder {
	return models.WorkOrder{
		TechnicianID:  techID,
		Status:        status,
		ScheduledDate: scheduled(y, m, d),
	}
}

func TestOrdersByTechnicianCounts(t *testing.T) {
	technicians := []models.Technician{
		{ID: 1, Name: "Juan Perez"},
		{ID: 2, Name: "Maria Gomez"},
	}
	orders := []models.WorkOrder{
		monthOrder(uintPtr(1), models.OrderStatusPending, 2025, time.March, 3),
		monthOrder(uintPtr(1), models.OrderStatusCompleted, 2025, time.March, 10),
		monthOrder(uintPtr(1), models.OrderStatusCompleted, 2025, time.March, 20),
		monthOrder(uintPtr(2), models.OrderStatusCancelled, 2025, time.March, 5),
		// Different month, must not count
		monthOrder(uintPtr(1), models.OrderStatusCompleted, 2025, time.April, 1),
		// No scheduled date, must not count
		{TechnicianID: uintPtr(1), Status: models.OrderStatusPending},
	}

	rows := OrdersByTechnician(technicians, orders, 2025, time.March)
	require.Len(t, rows, 3)

	juan := rows[0]
	assert.Equal(t, "Juan Perez", juan.TechnicianName)
	assert.Equal(t, 1, juan.Pending)
	assert.Equal(t, 2, juan.Completed)
	assert.Equal(t, 3, juan.Total)

	maria := rows[1]
	assert.Equal(t, 1, maria.Cancelled)
	assert.Equal(t, 1, maria.Total)

	total := rows[2]
	assert.Equal(t, "TOTAL", total.TechnicianName)
	assert.Nil(t, total.TechnicianID)
	assert.Equal(t, 1, total.Pending)
	assert.Equal(t, 2, total.Completed)
	assert.Equal(t, 1, total.Cancelled)
	assert.Equal(t, 4, total.Total)
}

func TestOrdersByTechnicianKeepsZeroRows(t *testing.T) {
	technicians := []models.Technician{{ID: 1, Name: "Idle"}}

	rows := OrdersByTechnician(technicians, nil, 2025, time.March)
	require.Len(t, rows, 2)
	assert.Equal(t, "Idle", rows[0].TechnicianName)
	assert.Zero(t, rows[0].Total)
	assert.Equal(t, "TOTAL", rows[1].TechnicianName)
	assert.Zero(t, rows[1].Total)
}

func TestOrdersByTechnicianUnassignedBucket(t *testing.T) {
	technicians := []models.Technician{{ID: 1, Name: "Juan Perez"}}
	orders := []models.WorkOrder{
		monthOrder(nil, models.OrderStatusInProgress, 2025, time.March, 8),
		monthOrder(nil, models.OrderStatusPending, 2025, time.March, 9),
	}

	rows := OrdersByTechnician(technicians, orders, 2025, time.March)
	require.Len(t, rows, 3)

	unassigned := rows[1]
	assert.Equal(t, "Unassigned", unassigned.TechnicianName)
	assert.Nil(t, unassigned.TechnicianID)
	assert.Equal(t, 1, unassigned.InProgress)
	assert.Equal(t, 2, unassigned.Total)

	// Without unassigned orders the bucket disappears
	rows = OrdersByTechnician(technicians, nil, 2025, time.March)
	require.Len(t, rows, 2)
	assert.Equal(t, "TOTAL", rows[1].TechnicianName)
}
