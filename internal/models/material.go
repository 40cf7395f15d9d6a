package models

import (
	"time"

	"gorm.io/gorm"
)

// Material represents a consumable material.
// Stock is tracked per warehouse in WarehouseStock; the global total is the
// sum of those rows, never a stored counter.
type Material struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"` // display unit: "m", "kg", "unidad"...
	MinStock    int    `gorm:"default:5" json:"min_stock"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Material model
func (Material) TableName() string {
	return "materials"
}
