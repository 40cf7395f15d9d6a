package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderStatus defines possible work order statuses
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"     // Awaiting action
	OrderStatusInProgress OrderStatus = "in_progress" // Currently being worked on
	OrderStatusCompleted  OrderStatus = "completed"   // Finished
	OrderStatusCancelled  OrderStatus = "cancelled"   // Cancelled
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderPriority defines possible work order priorities
type OrderPriority string

const (
	OrderPriorityLow    OrderPriority = "low"
	OrderPriorityNormal OrderPriority = "normal"
	OrderPriorityHigh   OrderPriority = "high"
)

// Valid reports whether p is one of the known order priorities.
func (p OrderPriority) Valid() bool {
	switch p {
	case OrderPriorityLow, OrderPriorityNormal, OrderPriorityHigh:
		return true
	}
	return false
}

// WorkOrder represents a schedulable unit of field service work.
// ClosedBy/ClosedAt are set only by the close operation, which is the single
// path that consumes warehouse inventory.
type WorkOrder struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Title        string          `gorm:"not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	ClientID     *uint           `gorm:"index" json:"client_id,omitempty"`
	TechnicianID *uint           `gorm:"index" json:"technician_id,omitempty"`
	Status       OrderStatus     `gorm:"default:pending;index" json:"status"`
	Priority     OrderPriority   `gorm:"default:normal" json:"priority"`
	ScheduledDate *datatypes.Date `json:"scheduled_date,omitempty"`
	ScheduledTime string          `json:"scheduled_time,omitempty"` // "HH:MM", optional

	ClosedBy *uint      `json:"closed_by,omitempty"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Client     *Client     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Technician *Technician `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
}

// TableName specifies the table name for WorkOrder model
func (WorkOrder) TableName() string {
	return "work_orders"
}

// OrderMaterialUsage records material consumed from a warehouse when a work
// order was closed. Append-only audit trail.
type OrderMaterialUsage struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	WorkOrderID uint `gorm:"not null;index" json:"work_order_id"`
	MaterialID  uint `gorm:"not null;index" json:"material_id"`
	WarehouseID uint `gorm:"not null;index" json:"warehouse_id"`
	Quantity    int  `gorm:"not null" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Material  Material  `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	Warehouse Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
}

// TableName specifies the table name for OrderMaterialUsage model
func (OrderMaterialUsage) TableName() string {
	return "order_material_usages"
}
