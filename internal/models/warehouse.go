package models

import (
	"time"

	"gorm.io/gorm"
)

// Warehouse represents an inventory bucket, either the central warehouse
// (no technician assigned) or a technician's vehicle stock.
type Warehouse struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null;unique" json:"name"`
	TechnicianID *uint  `gorm:"index" json:"technician_id,omitempty"`
	IsMain       bool   `gorm:"default:false" json:"is_main"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Technician *Technician      `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
	Stock      []WarehouseStock `gorm:"foreignKey:WarehouseID" json:"stock,omitempty"`
}

// TableName specifies the table name for Warehouse model
func (Warehouse) TableName() string {
	return "warehouses"
}

// WarehouseStock is one ledger entry: the quantity of a material held by a
// warehouse. Quantity never goes negative; every decrement is guarded.
type WarehouseStock struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	WarehouseID uint `gorm:"not null;uniqueIndex:idx_warehouse_material" json:"warehouse_id"`
	MaterialID  uint `gorm:"not null;uniqueIndex:idx_warehouse_material" json:"material_id"`
	Quantity    int  `gorm:"not null;default:0" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Warehouse Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	Material  Material  `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
}

// TableName specifies the table name for WarehouseStock model
func (WarehouseStock) TableName() string {
	return "warehouse_stocks"
}
