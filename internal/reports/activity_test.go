package reports

import (
	"testing"
	"time"

	"github.com/articotec/fieldgo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func scheduled(y int, m time.Month, d int) *datatypes.Date {
	date := datatypes.Date(day(y, m, d))
	return &date
}

func completedOrder(clientID uint, y int, m time.Month, d int) models.WorkOrder {
	return models.WorkOrder{
		ClientID:      &clientID,
		Status:        models.OrderStatusCompleted,
		ScheduledDate: scheduled(y, m, d),
	}
}

func TestClientActivityProjection(t *testing.T) {
	clients := []models.Client{{ID: 1, Name: "Bar El Puerto", Phone: "910111222"}}
	orders := []models.WorkOrder{completedOrder(1, 2025, time.January, 1)}

	rows := ClientActivity(clients, orders, day(2025, time.April, 16))
	require.Len(t, rows, 1)

	row := rows[0]
	require.NotNil(t, row.LastOrderDate)
	assert.Equal(t, day(2025, time.January, 1), *row.LastOrderDate)
	require.NotNil(t, row.ProjectedDate)
	assert.Equal(t, day(2025, time.May, 1), *row.ProjectedDate)
	require.NotNil(t, row.DaysRemaining)
	assert.Equal(t, 15, *row.DaysRemaining)
	require.NotNil(t, row.Percentage)
	assert.InDelta(t, 87.5, *row.Percentage, 0.001)
	assert.Equal(t, ActivityYellow, row.Status)
}

func TestClientActivityRedNearDeadline(t *testing.T) {
	clients := []models.Client{{ID: 1, Name: "Bar El Puerto"}}
	orders := []models.WorkOrder{completedOrder(1, 2025, time.January, 1)}

	rows := ClientActivity(clients, orders, day(2025, time.April, 28))
	require.Len(t, rows, 1)
	assert.InDelta(t, 97.5, *rows[0].Percentage, 0.001)
	assert.Equal(t, ActivityRed, rows[0].Status)
}

func TestClientActivityThresholdBoundaries(t *testing.T) {
	// 120-day window from 2025-01-01; 60% elapsed = day 72, 90% = day 108
	clients := []models.Client{{ID: 1, Name: "C"}}
	orders := []models.WorkOrder{completedOrder(1, 2025, time.January, 1)}

	tests := []struct {
		name  string
		today time.Time
		want  ActivityStatus
	}{
		{"just under 60%", day(2025, time.March, 13), ActivityGreen},
		{"exactly 60%", day(2025, time.March, 14), ActivityYellow},
		{"just under 90%", day(2025, time.April, 18), ActivityYellow},
		{"exactly 90%", day(2025, time.April, 19), ActivityRed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := ClientActivity(clients, orders, tt.today)
			require.Len(t, rows, 1)
			assert.Equal(t, tt.want, rows[0].Status)
		})
	}
}

func TestClientActivityClampsOverduePercentage(t *testing.T) {
	clients := []models.Client{{ID: 1, Name: "C"}}
	orders := []models.WorkOrder{completedOrder(1, 2025, time.January, 1)}

	// Two months past the projected date
	rows := ClientActivity(clients, orders, day(2025, time.July, 1))
	require.Len(t, rows, 1)
	assert.Equal(t, 100.0, *rows[0].Percentage)
	assert.Equal(t, ActivityRed, rows[0].Status)
	assert.Negative(t, *rows[0].DaysRemaining)
}

func TestClientActivityUsesLatestCompletedOrder(t *testing.T) {
	clients := []models.Client{{ID: 1, Name: "C"}}
	orders := []models.WorkOrder{
		completedOrder(1, 2024, time.June, 1),
		completedOrder(1, 2025, time.February, 10),
		// Pending orders never count as history
		{ClientID: uintPtr(1), Status: models.OrderStatusPending, ScheduledDate: scheduled(2025, time.March, 1)},
	}

	rows := ClientActivity(clients, orders, day(2025, time.March, 1))
	require.Len(t, rows, 1)
	assert.Equal(t, day(2025, time.February, 10), *rows[0].LastOrderDate)
	assert.Equal(t, day(2025, time.June, 10), *rows[0].ProjectedDate)
}

func TestClientActivitySortsNoHistoryLast(t *testing.T) {
	clients := []models.Client{
		{ID: 1, Name: "No History"},
		{ID: 2, Name: "Fresh"},
		{ID: 3, Name: "Urgent"},
	}
	orders := []models.WorkOrder{
		completedOrder(2, 2025, time.April, 1),
		completedOrder(3, 2025, time.January, 1),
	}

	rows := ClientActivity(clients, orders, day(2025, time.April, 28))
	require.Len(t, rows, 3)
	assert.Equal(t, "Urgent", rows[0].ClientName)
	assert.Equal(t, "Fresh", rows[1].ClientName)
	assert.Equal(t, "No History", rows[2].ClientName)
	assert.Equal(t, ActivityNoHistory, rows[2].Status)
	assert.Nil(t, rows[2].Percentage)
}

func TestClientActivityEmptyInputs(t *testing.T) {
	rows := ClientActivity(nil, nil, day(2025, time.April, 1))
	assert.Empty(t, rows)
}

func uintPtr(v uint) *uint { return &v }
