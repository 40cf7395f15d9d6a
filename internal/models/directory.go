package models

import (
	"time"

	"gorm.io/gorm"
)

// TechnicianStatus defines whether a technician can be assigned work
type TechnicianStatus string

const (
	TechnicianActive   TechnicianStatus = "active"
	TechnicianInactive TechnicianStatus = "inactive"
)

// Valid reports whether the status is one of the known values
func (s TechnicianStatus) Valid() bool {
	return s == TechnicianActive || s == TechnicianInactive
}

// Technician represents a field technician
type Technician struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	Name           string           `gorm:"not null" json:"name"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email"`
	Specialization string           `json:"specialization"`
	Status         TechnicianStatus `gorm:"default:active;index" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Technician model
func (Technician) TableName() string {
	return "technicians"
}

// Client represents a customer serviced by work orders
type Client struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Client model
func (Client) TableName() string {
	return "clients"
}
