package orders

import (
	"errors"
	"fmt"
	"time"

	"github.com/articotec/fieldgo/internal/inventory"
	"github.com/articotec/fieldgo/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means the work order does not exist
	ErrNotFound = errors.New("work order not found")
	// ErrAlreadyCompleted means a close was attempted on a completed order
	ErrAlreadyCompleted = errors.New("work order already completed")
	// ErrValidation means the input violates a business rule
	ErrValidation = errors.New("validation failed")
)

// Service implements the work order lifecycle. Completion is only reachable
// through Close, which consumes warehouse inventory in the same transaction.
type Service struct {
	db     *gorm.DB
	ledger *inventory.Ledger
}

// NewService creates a work order Service
func NewService(db *gorm.DB, ledger *inventory.Ledger) *Service {
	return &Service{db: db, ledger: ledger}
}

// ListFilter narrows List results; zero values mean "no filter"
type ListFilter struct {
	Status       models.OrderStatus
	TechnicianID uint
	ClientID     uint
}

// CreateInput is the payload for creating a work order
type CreateInput struct {
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	ClientID      *uint                `json:"client_id"`
	TechnicianID  *uint                `json:"technician_id"`
	Status        models.OrderStatus   `json:"status"`
	Priority      models.OrderPriority `json:"priority"`
	ScheduledDate *datatypes.Date      `json:"scheduled_date"`
	ScheduledTime string               `json:"scheduled_time"`
}

// UpdateInput is the payload for editing a work order; nil fields are left untouched
type UpdateInput struct {
	Title         *string               `json:"title"`
	Description   *string               `json:"description"`
	ClientID      *uint                 `json:"client_id"`
	TechnicianID  *uint                 `json:"technician_id"`
	Status        *models.OrderStatus   `json:"status"`
	Priority      *models.OrderPriority `json:"priority"`
	ScheduledDate *datatypes.Date       `json:"scheduled_date"`
	ScheduledTime *string               `json:"scheduled_time"`
}

// List returns work orders matching the filter, newest first
func (s *Service) List(filter ListFilter) ([]models.WorkOrder, error) {
	q := s.db.Preload("Client").Preload("Technician").Order("id DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.TechnicianID != 0 {
		q = q.Where("technician_id = ?", filter.TechnicianID)
	}
	if filter.ClientID != 0 {
		q = q.Where("client_id = ?", filter.ClientID)
	}

	var ordersList []models.WorkOrder
	if err := q.Find(&ordersList).Error; err != nil {
		return nil, err
	}
	return ordersList, nil
}

// Get returns one work order by id
func (s *Service) Get(id uint) (*models.WorkOrder, error) {
	var order models.WorkOrder
	err := s.db.Preload("Client").Preload("Technician").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create validates and persists a new work order
func (s *Service) Create(in CreateInput) (*models.WorkOrder, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.Status == "" {
		in.Status = models.OrderStatusPending
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	if in.Status == models.OrderStatusCompleted {
		return nil, fmt.Errorf("%w: orders cannot be created completed, close them instead", ErrValidation)
	}
	if in.Priority == "" {
		in.Priority = models.OrderPriorityNormal
	}
	if !in.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
	}

	order := models.WorkOrder{
		Title:         in.Title,
		Description:   in.Description,
		ClientID:      in.ClientID,
		TechnicianID:  in.TechnicianID,
		Status:        in.Status,
		Priority:      in.Priority,
		ScheduledDate: in.ScheduledDate,
		ScheduledTime: in.ScheduledTime,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, err
	}
	return s.Get(order.ID)
}

// Update edits the listed fields without touching inventory. A status change
// into completed is rejected: the only way to complete an order is Close,
// so every completion carries its inventory consumption and audit stamps.
func (s *Service) Update(id uint, in UpdateInput) (*models.WorkOrder, error) {
	var order models.WorkOrder
	err := s.db.First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrValidation)
		}
		order.Title = *in.Title
	}
	if in.Description != nil {
		order.Description = *in.Description
	}
	if in.ClientID != nil {
		order.ClientID = in.ClientID
	}
	if in.TechnicianID != nil {
		order.TechnicianID = in.TechnicianID
	}
	if in.Status != nil && *in.Status != order.Status {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *in.Status)
		}
		if *in.Status == models.OrderStatusCompleted {
			return nil, fmt.Errorf("%w: orders are completed through the close operation", ErrValidation)
		}
		if order.Status == models.OrderStatusCompleted {
			// Reopening clears the close stamps so they stay tied to completion
			order.ClosedBy = nil
			order.ClosedAt = nil
		}
		order.Status = *in.Status
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, *in.Priority)
		}
		order.Priority = *in.Priority
	}
	if in.ScheduledDate != nil {
		order.ScheduledDate = in.ScheduledDate
	}
	if in.ScheduledTime != nil {
		order.ScheduledTime = *in.ScheduledTime
	}

	if err := s.db.Save(&order).Error; err != nil {
		return nil, err
	}
	return s.Get(order.ID)
}

// Delete removes a work order and its usage history. The consumption the
// usage rows recorded stays applied to the ledger: the material really left
// the warehouse.
func (s *Service) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.WorkOrder
		err := tx.First(&order, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Where("work_order_id = ?", id).Delete(&models.OrderMaterialUsage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

// Close consumes inventory from one warehouse and marks the order completed,
// all inside a single transaction. If anything fails the order and the
// ledger are left untouched.
func (s *Service) Close(orderID, actorID, warehouseID uint, lines []inventory.UsageLine) (*models.WorkOrder, error) {
	var closed models.WorkOrder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.WorkOrder
		err := tx.First(&order, orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if order.Status == models.OrderStatusCompleted {
			return ErrAlreadyCompleted
		}

		if err := s.ledger.ConsumeTx(tx, warehouseID, lines); err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&models.WorkOrder{}).
			Where("id = ? AND status <> ?", orderID, models.OrderStatusCompleted).
			Updates(map[string]interface{}{
				"status":    models.OrderStatusCompleted,
				"closed_by": actorID,
				"closed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent close won the race; roll back our consumption
			return ErrAlreadyCompleted
		}

		for _, line := range lines {
			if line.Quantity == 0 {
				continue
			}
			usage := models.OrderMaterialUsage{
				WorkOrderID: orderID,
				MaterialID:  line.MaterialID,
				WarehouseID: warehouseID,
				Quantity:    line.Quantity,
			}
			if err := tx.Create(&usage).Error; err != nil {
				return err
			}
		}

		return tx.Preload("Client").Preload("Technician").First(&closed, orderID).Error
	})
	if err != nil {
		return nil, err
	}
	return &closed, nil
}

// Usage returns the materials consumed when the order was closed
func (s *Service) Usage(orderID uint) ([]models.OrderMaterialUsage, error) {
	var count int64
	if err := s.db.Model(&models.WorkOrder{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	var usage []models.OrderMaterialUsage
	err := s.db.Preload("Material").Preload("Warehouse").
		Where("work_order_id = ?", orderID).
		Order("id").
		Find(&usage).Error
	if err != nil {
		return nil, err
	}
	return usage, nil
}
