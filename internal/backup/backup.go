package backup

import (
	"errors"
	"time"

	"github.com/articotec/fieldgo/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FormatVersion identifies the archive layout; bump on breaking changes
const FormatVersion = 1

// ErrInvalidArchive means the uploaded document is not a usable backup
var ErrInvalidArchive = errors.New("invalid backup archive")

// Manifest describes a backup archive
type Manifest struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRecord is the archive form of a user. models.User hides the password
// hash from JSON, but a backup must carry it or restored accounts could not
// log in.
type UserRecord struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Password  string     `json:"password_hash"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Archive is a full JSON snapshot of every entity in the system
type Archive struct {
	Manifest    Manifest                    `json:"manifest"`
	Users       []UserRecord                `json:"users"`
	Technicians []models.Technician         `json:"technicians"`
	Clients     []models.Client             `json:"clients"`
	Materials   []models.Material           `json:"materials"`
	Warehouses  []models.Warehouse          `json:"warehouses"`
	Stock       []models.WarehouseStock     `json:"stock"`
	WorkOrders  []models.WorkOrder          `json:"work_orders"`
	Usage       []models.OrderMaterialUsage `json:"order_material_usage"`
}

// Export snapshots the whole database into an Archive
func Export(db *gorm.DB) (*Archive, error) {
	archive := &Archive{
		Manifest: Manifest{
			ID:        uuid.NewString(),
			Version:   FormatVersion,
			CreatedAt: time.Now().UTC(),
		},
	}

	if err := db.Model(&models.User{}).Find(&archive.Users).Error; err != nil {
		return nil, err
	}

	steps := []struct {
		dest interface{}
	}{
		{&archive.Technicians},
		{&archive.Clients},
		{&archive.Materials},
		{&archive.Warehouses},
		{&archive.Stock},
		{&archive.WorkOrders},
		{&archive.Usage},
	}
	for _, step := range steps {
		if err := db.Find(step.dest).Error; err != nil {
			return nil, err
		}
	}
	return archive, nil
}

// Restore replaces the entire database contents with the archive, in one
// transaction: a failed restore leaves the previous data in place.
func Restore(db *gorm.DB, archive *Archive) error {
	if archive == nil || archive.Manifest.Version == 0 {
		return ErrInvalidArchive
	}
	if archive.Manifest.Version > FormatVersion {
		return errors.New("backup archive was created by a newer version")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// Children first so foreign keys never dangle mid-restore
		wipe := []interface{}{
			&models.OrderMaterialUsage{},
			&models.WorkOrder{},
			&models.WarehouseStock{},
			&models.Warehouse{},
			&models.Material{},
			&models.Client{},
			&models.Technician{},
			&models.User{},
		}
		for _, model := range wipe {
			if err := tx.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}

		if len(archive.Users) > 0 {
			if err := tx.Table("users").Create(&archive.Users).Error; err != nil {
				return err
			}
		}

		inserts := []struct {
			rows interface{}
			size int
		}{
			{&archive.Technicians, len(archive.Technicians)},
			{&archive.Clients, len(archive.Clients)},
			{&archive.Materials, len(archive.Materials)},
			{&archive.Warehouses, len(archive.Warehouses)},
			{&archive.Stock, len(archive.Stock)},
			{&archive.WorkOrders, len(archive.WorkOrders)},
			{&archive.Usage, len(archive.Usage)},
		}
		for _, ins := range inserts {
			if ins.size == 0 {
				continue
			}
			if err := tx.Create(ins.rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
