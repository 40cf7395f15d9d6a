package main

import (
	"fmt"
	"log"
	"time"

	"github.com/articotec/fieldgo/internal/config"
	"github.com/articotec/fieldgo/internal/database"
	"github.com/articotec/fieldgo/internal/inventory"
	"github.com/articotec/fieldgo/internal/models"
	"github.com/articotec/fieldgo/internal/utils"
	"gorm.io/datatypes"
)

func main() {
	fmt.Println("🌱 Artico Demo Data Seeder")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	// Run migrations first
	fmt.Println("🔨 Running database migrations...")
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
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")

	// Check if data already exists
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	if userCount > 0 {
		fmt.Printf("⚠️  Database already has %d users. Clear it first? (y/N): ", userCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}

		fmt.Println("🗑️  Clearing existing data...")
		db.Exec("TRUNCATE TABLE order_material_usages CASCADE")
		db.Exec("TRUNCATE TABLE work_orders CASCADE")
		db.Exec("TRUNCATE TABLE warehouse_stocks CASCADE")
		db.Exec("TRUNCATE TABLE warehouses CASCADE")
		db.Exec("TRUNCATE TABLE materials CASCADE")
		db.Exec("TRUNCATE TABLE clients CASCADE")
		db.Exec("TRUNCATE TABLE technicians CASCADE")
		db.Exec("TRUNCATE TABLE users CASCADE")
		fmt.Println("✅ Data cleared")
	}

	fmt.Println()
	fmt.Println("📦 Creating demo data...")

	// 1. Users
	fmt.Println("👤 Creating users...")
	adminHash, err := utils.HashPassword("admin123")
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}
	techHash, _ := utils.HashPassword("tecnico123")
	users := []models.User{
		{Username: "admin", Password: adminHash, Role: "admin", IsActive: true},
		{Username: "jperez", Password: techHash, Role: "tecnico", IsActive: true},
	}
	if err := db.Create(&users).Error; err != nil {
		log.Fatalf("❌ Failed to create users: %v", err)
	}

	// 2. Technicians
	fmt.Println("🔧 Creating technicians...")
	technicians := []models.Technician{
		{Name: "Juan Perez", Phone: "600111222", Email: "juan@artico.example", Specialization: "Refrigeration", Status: models.TechnicianActive},
		{Name: "Maria Gomez", Phone: "600333444", Email: "maria@artico.example", Specialization: "Electrical", Status: models.TechnicianActive},
		{Name: "Carlos Ruiz", Phone: "600555666", Email: "carlos@artico.example", Specialization: "HVAC", Status: models.TechnicianInactive},
	}
	if err := db.Create(&technicians).Error; err != nil {
		log.Fatalf("❌ Failed to create technicians: %v", err)
	}

	// 3. Clients
	fmt.Println("🏢 Creating clients...")
	clients := []models.Client{
		{Name: "Bar El Puerto", Phone: "910111222", Address: "Calle Mayor 1"},
		{Name: "Restaurante La Plaza", Phone: "910333444", Address: "Plaza Nueva 5"},
		{Name: "Hotel Miramar", Phone: "910555666", Address: "Av. del Mar 10"},
	}
	if err := db.Create(&clients).Error; err != nil {
		log.Fatalf("❌ Failed to create clients: %v", err)
	}

	// 4. Materials
	fmt.Println("🧱 Creating materials...")
	materials := []models.Material{
		{Name: "Copper pipe 1/4\"", Unit: "m", MinStock: 20},
		{Name: "Refrigerant R-410A", Unit: "kg", MinStock: 10},
		{Name: "Compressor 1HP", Unit: "unidad", MinStock: 2},
		{Name: "Thermostat", Unit: "unidad", MinStock: 5},
	}
	if err := db.Create(&materials).Error; err != nil {
		log.Fatalf("❌ Failed to create materials: %v", err)
	}

	// 5. Warehouses (one main plus one van per active technician)
	fmt.Println("🏭 Creating warehouses...")
	warehouses := []models.Warehouse{
		{Name: "Almacen Central", IsMain: true},
		{Name: "Furgoneta Juan", TechnicianID: &technicians[0].ID},
		{Name: "Furgoneta Maria", TechnicianID: &technicians[1].ID},
	}
	if err := db.Create(&warehouses).Error; err != nil {
		log.Fatalf("❌ Failed to create warehouses: %v", err)
	}

	// 6. Stock (credited through the ledger so totals stay consistent)
	fmt.Println("📊 Stocking warehouses...")
	ledger := inventory.NewLedger(db.DB)
	restocks := []struct {
		warehouse uint
		material  uint
		qty       int
	}{
		{warehouses[0].ID, materials[0].ID, 100},
		{warehouses[0].ID, materials[1].ID, 40},
		{warehouses[0].ID, materials[2].ID, 6},
		{warehouses[0].ID, materials[3].ID, 15},
		{warehouses[1].ID, materials[0].ID, 10},
		{warehouses[1].ID, materials[1].ID, 5},
		{warehouses[2].ID, materials[0].ID, 8},
		{warehouses[2].ID, materials[3].ID, 3},
	}
	for _, r := range restocks {
		if err := ledger.Add(r.warehouse, r.material, r.qty); err != nil {
			log.Fatalf("❌ Failed to stock warehouse: %v", err)
		}
	}

	// 7. Work orders across the last few months, some already completed
	fmt.Println("📋 Creating work orders...")
	today := time.Now()
	dateOffset := func(days int) *datatypes.Date {
		d := datatypes.Date(today.AddDate(0, 0, days))
		return &d
	}
	closedAt := today.AddDate(0, 0, -30)
	orders := []models.WorkOrder{
		{
			Title: "Cold room not cooling", ClientID: &clients[0].ID, TechnicianID: &technicians[0].ID,
			Status: models.OrderStatusCompleted, Priority: models.OrderPriorityHigh,
			ScheduledDate: dateOffset(-30), ScheduledTime: "09:00",
			ClosedBy: &users[0].ID, ClosedAt: &closedAt,
		},
		{
			Title: "Quarterly maintenance", ClientID: &clients[1].ID, TechnicianID: &technicians[1].ID,
			Status: models.OrderStatusInProgress, Priority: models.OrderPriorityNormal,
			ScheduledDate: dateOffset(0), ScheduledTime: "11:30",
		},
		{
			Title: "Install new thermostat", ClientID: &clients[2].ID, TechnicianID: &technicians[0].ID,
			Status: models.OrderStatusPending, Priority: models.OrderPriorityLow,
			ScheduledDate: dateOffset(7),
		},
		{
			Title: "Freezer inspection", ClientID: &clients[0].ID,
			Status: models.OrderStatusPending, Priority: models.OrderPriorityNormal,
			ScheduledDate: dateOffset(14), ScheduledTime: "16:00",
		},
	}
	if err := db.Create(&orders).Error; err != nil {
		log.Fatalf("❌ Failed to create work orders: %v", err)
	}

	// Record the consumption that closed the first order, debiting the
	// ledger so stock and history agree
	lines := []inventory.UsageLine{{MaterialID: materials[1].ID, Quantity: 2}}
	if err := ledger.Consume(warehouses[1].ID, lines); err != nil {
		log.Fatalf("❌ Failed to consume stock: %v", err)
	}
	usage := models.OrderMaterialUsage{
		WorkOrderID: orders[0].ID,
		MaterialID:  materials[1].ID,
		WarehouseID: warehouses[1].ID,
		Quantity:    2,
	}
	if err := db.Create(&usage).Error; err != nil {
		log.Fatalf("❌ Failed to create usage record: %v", err)
	}

	fmt.Println()
	fmt.Println("✅ Demo data created")
	fmt.Println("   Login: admin / admin123")
}
