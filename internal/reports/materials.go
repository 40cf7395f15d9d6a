package reports

import (
	"sort"
	"time"
)

// UsageRecord is one consumed-material line joined with its order's
// technician and scheduled date.
type UsageRecord struct {
	MaterialID    uint
	MaterialName  string
	Unit          string
	Quantity      int
	TechnicianID  *uint
	TechnicianName string
	ScheduledDate *time.Time
}

// UsageFilter narrows the material usage report. Year is required; a zero
// Month or TechnicianID means "all".
type UsageFilter struct {
	Year         int
	Month        time.Month
	TechnicianID uint
}

// TechnicianUsage is one technician's share of a material's consumption
type TechnicianUsage struct {
	TechnicianID   *uint  `json:"technician_id,omitempty"`
	TechnicianName string `json:"technician_name"`
	Quantity       int    `json:"quantity"`
}

// MaterialUsageRow aggregates consumption of one material over the period
type MaterialUsageRow struct {
	MaterialID    uint              `json:"material_id"`
	MaterialName  string            `json:"material_name"`
	Unit          string            `json:"unit"`
	TotalQuantity int               `json:"total_quantity"`
	ByTechnician  []TechnicianUsage `json:"by_technician"`
}

// MaterialUsage groups consumed materials by material and technician for the
// filtered period, most consumed first.
func MaterialUsage(records []UsageRecord, filter UsageFilter) []MaterialUsageRow {
	byMaterial := make(map[uint]*MaterialUsageRow)
	order := make([]uint, 0)

	for _, rec := range records {
		if rec.ScheduledDate == nil {
			continue
		}
		if rec.ScheduledDate.Year() != filter.Year {
			continue
		}
		if filter.Month != 0 && rec.ScheduledDate.Month() != filter.Month {
			continue
		}
		if filter.TechnicianID != 0 && (rec.TechnicianID == nil || *rec.TechnicianID != filter.TechnicianID) {
			continue
		}

		row, ok := byMaterial[rec.MaterialID]
		if !ok {
			row = &MaterialUsageRow{
				MaterialID:   rec.MaterialID,
				MaterialName: rec.MaterialName,
				Unit:         rec.Unit,
			}
			byMaterial[rec.MaterialID] = row
			order = append(order, rec.MaterialID)
		}
		row.TotalQuantity += rec.Quantity

		name := rec.TechnicianName
		if rec.TechnicianID == nil {
			name = "Unassigned"
		}
		found := false
		for i := range row.ByTechnician {
			if sameTechnician(row.ByTechnician[i].TechnicianID, rec.TechnicianID) {
				row.ByTechnician[i].Quantity += rec.Quantity
				found = true
				break
			}
		}
		if !found {
			row.ByTechnician = append(row.ByTechnician, TechnicianUsage{
				TechnicianID:   rec.TechnicianID,
				TechnicianName: name,
				Quantity:       rec.Quantity,
			})
		}
	}

	rows := make([]MaterialUsageRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byMaterial[id])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalQuantity > rows[j].TotalQuantity
	})

	return rows
}

func sameTechnician(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
