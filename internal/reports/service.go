package reports

import (
	"time"

	"github.com/articotec/fieldgo/internal/models"
	"gorm.io/gorm"
)

// Service loads report inputs from the database and runs the pure
// aggregation functions over them. Commands mutate state elsewhere; every
// report here is a plain query.
type Service struct {
	db *gorm.DB
}

// NewService creates a reports Service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// OrdersByTechnician builds the orders-by-technician report for one month
func (s *Service) OrdersByTechnician(year int, month time.Month) ([]TechnicianRow, error) {
	var technicians []models.Technician
	if err := s.db.Order("id").Find(&technicians).Error; err != nil {
		return nil, err
	}
	var orders []models.WorkOrder
	if err := s.db.Find(&orders).Error; err != nil {
		return nil, err
	}
	return OrdersByTechnician(technicians, orders, year, month), nil
}

// ClientActivity builds the maintenance activity report as of today
func (s *Service) ClientActivity(today time.Time) ([]ActivityRow, error) {
	var clients []models.Client
	if err := s.db.Order("id").Find(&clients).Error; err != nil {
		return nil, err
	}
	var orders []models.WorkOrder
	if err := s.db.Where("status = ?", models.OrderStatusCompleted).Find(&orders).Error; err != nil {
		return nil, err
	}
	return ClientActivity(clients, orders, today), nil
}

// MaterialUsage builds the material usage report for the filtered period
func (s *Service) MaterialUsage(filter UsageFilter) ([]MaterialUsageRow, error) {
	var records []UsageRecord
	err := s.db.Table("order_material_usages").
		Select(`order_material_usages.material_id,
			materials.name AS material_name,
			materials.unit,
			order_material_usages.quantity,
			work_orders.technician_id,
			technicians.name AS technician_name,
			work_orders.scheduled_date`).
		Joins("JOIN work_orders ON work_orders.id = order_material_usages.work_order_id AND work_orders.deleted_at IS NULL").
		Joins("JOIN materials ON materials.id = order_material_usages.material_id AND materials.deleted_at IS NULL").
		Joins("LEFT JOIN technicians ON technicians.id = work_orders.technician_id").
		Order("order_material_usages.id").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return MaterialUsage(records, filter), nil
}
