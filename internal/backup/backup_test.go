package backup

import (
	"testing"

	"github.com/articotec/fieldgo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBackupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Technician{},
		&models.Client{},
		&models.Material{},
		&models.Warehouse{},
		&models.WarehouseStock{},
		&models.WorkOrder{},
		&models.OrderMaterialUsage{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func seedBackupData(t *testing.T, db *gorm.DB) {
	user := models.User{Username: "admin", Password: "hash", Role: "admin", IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	tech := models.Technician{Name: "Juan Perez", Status: models.TechnicianActive}
	require.NoError(t, db.Create(&tech).Error)

	client := models.Client{Name: "Bar El Puerto"}
	require.NoError(t, db.Create(&client).Error)

	material := models.Material{Name: "Refrigerant", Unit: "kg", MinStock: 5}
	require.NoError(t, db.Create(&material).Error)

	warehouse := models.Warehouse{Name: "Central", IsMain: true}
	require.NoError(t, db.Create(&warehouse).Error)

	stock := models.WarehouseStock{WarehouseID: warehouse.ID, MaterialID: material.ID, Quantity: 8}
	require.NoError(t, db.Create(&stock).Error)

	order := models.WorkOrder{Title: "Cold room repair", ClientID: &client.ID, TechnicianID: &tech.ID, Status: models.OrderStatusPending}
	require.NoError(t, db.Create(&order).Error)

	usage := models.OrderMaterialUsage{WorkOrderID: order.ID, MaterialID: material.ID, WarehouseID: warehouse.ID, Quantity: 2}
	require.NoError(t, db.Create(&usage).Error)
}

func TestExportSnapshotsEverything(t *testing.T) {
	db := setupBackupTestDB(t)
	seedBackupData(t, db)

	archive, err := Export(db)
	require.NoError(t, err)

	assert.NotEmpty(t, archive.Manifest.ID)
	assert.Equal(t, FormatVersion, archive.Manifest.Version)
	assert.False(t, archive.Manifest.CreatedAt.IsZero())

	require.Len(t, archive.Users, 1)
	// The archive keeps the password hash models.User hides from JSON
	assert.Equal(t, "hash", archive.Users[0].Password)
	assert.Len(t, archive.Technicians, 1)
	assert.Len(t, archive.Clients, 1)
	assert.Len(t, archive.Materials, 1)
	assert.Len(t, archive.Warehouses, 1)
	assert.Len(t, archive.Stock, 1)
	assert.Len(t, archive.WorkOrders, 1)
	assert.Len(t, archive.Usage, 1)
}

func TestRestoreRoundTrip(t *testing.T) {
	source := setupBackupTestDB(t)
	seedBackupData(t, source)

	archive, err := Export(source)
	require.NoError(t, err)

	// Restore into a database holding unrelated data
	target := setupBackupTestDB(t)
	require.NoError(t, target.Create(&models.Client{Name: "Leftover"}).Error)
	require.NoError(t, target.Create(&models.Material{Name: "Old part"}).Error)

	require.NoError(t, Restore(target, archive))

	var clients []models.Client
	require.NoError(t, target.Find(&clients).Error)
	require.Len(t, clients, 1)
	assert.Equal(t, "Bar El Puerto", clients[0].Name)

	var stock models.WarehouseStock
	require.NoError(t, target.First(&stock).Error)
	assert.Equal(t, 8, stock.Quantity)

	var orders []models.WorkOrder
	require.NoError(t, target.Find(&orders).Error)
	require.Len(t, orders, 1)
	assert.Equal(t, "Cold room repair", orders[0].Title)

	var usage []models.OrderMaterialUsage
	require.NoError(t, target.Find(&usage).Error)
	require.Len(t, usage, 1)
	assert.Equal(t, orders[0].ID, usage[0].WorkOrderID)

	var user models.User
	require.NoError(t, target.First(&user).Error)
	assert.Equal(t, "hash", user.Password)
}

func TestRestoreRejectsInvalidArchive(t *testing.T) {
	db := setupBackupTestDB(t)

	assert.ErrorIs(t, Restore(db, nil), ErrInvalidArchive)
	assert.ErrorIs(t, Restore(db, &Archive{}), ErrInvalidArchive)

	newer := &Archive{Manifest: Manifest{ID: "x", Version: FormatVersion + 1}}
	assert.Error(t, Restore(db, newer))
}

func TestRestoreEmptyArchiveWipes(t *testing.T) {
	db := setupBackupTestDB(t)
	seedBackupData(t, db)

	empty := &Archive{Manifest: Manifest{ID: "empty", Version: FormatVersion}}
	require.NoError(t, Restore(db, empty))

	var count int64
	db.Model(&models.WorkOrder{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}
