package inventory

import (
	"errors"
	"fmt"

	"github.com/articotec/fieldgo/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means a referenced warehouse or material does not exist
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock means a decrement would drive a stock entry negative
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ShortageError reports how short a warehouse is on a requested material.
// It unwraps to ErrInsufficientStock.
type ShortageError struct {
	WarehouseID uint
	MaterialID  uint
	Requested   int
	Available   int
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("insufficient stock for material %d in warehouse %d: requested %d, available %d",
		e.MaterialID, e.WarehouseID, e.Requested, e.Available)
}

func (e *ShortageError) Unwrap() error { return ErrInsufficientStock }

// UsageLine is one material/quantity pair in a consumption batch
type UsageLine struct {
	MaterialID uint `json:"material_id"`
	Quantity   int  `json:"quantity"`
}

// StockItem is a read-only inventory row enriched with the material's
// display name and unit.
type StockItem struct {
	MaterialID uint   `json:"material_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Unit       string `json:"unit"`
}

// MaterialTotal is the computed global stock of one material across all
// warehouses. The per-warehouse ledger is the single source of truth; there
// is no stored global counter to drift out of sync.
type MaterialTotal struct {
	MaterialID uint   `json:"material_id"`
	Name       string `json:"name"`
	Unit       string `json:"unit"`
	MinStock   int    `json:"min_stock"`
	Total      int    `json:"total"`
}

// Ledger maintains non-negative per-warehouse material quantities
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a Ledger on top of db
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Transfer moves qty units of a material from one warehouse to another.
// Transferring a warehouse to itself is a no-op.
func (l *Ledger) Transfer(fromID, toID, materialID uint, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("transfer quantity must be positive, got %d", qty)
	}
	if fromID == toID {
		return nil
	}

	return l.db.Transaction(func(tx *gorm.DB) error {
		if err := checkWarehouse(tx, fromID); err != nil {
			return err
		}
		if err := checkWarehouse(tx, toID); err != nil {
			return err
		}
		if err := checkMaterial(tx, materialID); err != nil {
			return err
		}
		if err := decrement(tx, fromID, materialID, qty); err != nil {
			return err
		}
		return increment(tx, toID, materialID, qty)
	})
}

// Consume applies a batch of usage lines against one warehouse. The whole
// batch applies or none of it does; zero-quantity lines are skipped.
func (l *Ledger) Consume(warehouseID uint, lines []UsageLine) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		return l.ConsumeTx(tx, warehouseID, lines)
	})
}

// ConsumeTx is Consume running inside an existing transaction, so callers
// can tie consumption to other writes (closing a work order).
func (l *Ledger) ConsumeTx(tx *gorm.DB, warehouseID uint, lines []UsageLine) error {
	if err := checkWarehouse(tx, warehouseID); err != nil {
		return err
	}
	for _, line := range lines {
		if line.Quantity == 0 {
			continue
		}
		if line.Quantity < 0 {
			return fmt.Errorf("usage quantity must not be negative, got %d", line.Quantity)
		}
		if err := checkMaterial(tx, line.MaterialID); err != nil {
			return err
		}
		if err := decrement(tx, warehouseID, line.MaterialID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// Add credits qty units of a material to a warehouse, creating the stock
// entry if needed. Used by restocking and by the seed command.
func (l *Ledger) Add(warehouseID, materialID uint, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("restock quantity must be positive, got %d", qty)
	}
	return l.db.Transaction(func(tx *gorm.DB) error {
		if err := checkWarehouse(tx, warehouseID); err != nil {
			return err
		}
		if err := checkMaterial(tx, materialID); err != nil {
			return err
		}
		return increment(tx, warehouseID, materialID, qty)
	})
}

// Snapshot returns the inventory of one warehouse for display
func (l *Ledger) Snapshot(warehouseID uint) ([]StockItem, error) {
	if err := checkWarehouse(l.db, warehouseID); err != nil {
		return nil, err
	}

	var items []StockItem
	err := l.db.Table("warehouse_stocks").
		Select("warehouse_stocks.material_id, materials.name, warehouse_stocks.quantity, materials.unit").
		Joins("JOIN materials ON materials.id = warehouse_stocks.material_id AND materials.deleted_at IS NULL").
		Where("warehouse_stocks.warehouse_id = ?", warehouseID).
		Order("materials.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// WarehouseHolding is the quantity of one material held by one warehouse
type WarehouseHolding struct {
	WarehouseID   uint   `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	Quantity      int    `json:"quantity"`
}

// Distribution returns where one material's stock sits, warehouse by warehouse
func (l *Ledger) Distribution(materialID uint) ([]WarehouseHolding, error) {
	if err := checkMaterial(l.db, materialID); err != nil {
		return nil, err
	}

	var holdings []WarehouseHolding
	err := l.db.Table("warehouse_stocks").
		Select("warehouse_stocks.warehouse_id, warehouses.name AS warehouse_name, warehouse_stocks.quantity").
		Joins("JOIN warehouses ON warehouses.id = warehouse_stocks.warehouse_id AND warehouses.deleted_at IS NULL").
		Where("warehouse_stocks.material_id = ?", materialID).
		Order("warehouses.name").
		Scan(&holdings).Error
	if err != nil {
		return nil, err
	}
	return holdings, nil
}

// Totals returns the computed global stock of every material
func (l *Ledger) Totals() ([]MaterialTotal, error) {
	var totals []MaterialTotal
	err := l.db.Table("materials").
		Select("materials.id AS material_id, materials.name, materials.unit, materials.min_stock, COALESCE(SUM(warehouse_stocks.quantity), 0) AS total").
		Joins("LEFT JOIN warehouse_stocks ON warehouse_stocks.material_id = materials.id").
		Where("materials.deleted_at IS NULL").
		Group("materials.id, materials.name, materials.unit, materials.min_stock").
		Order("materials.name").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// LowStock returns materials whose global total is below their reorder threshold
func (l *Ledger) LowStock() ([]MaterialTotal, error) {
	totals, err := l.Totals()
	if err != nil {
		return nil, err
	}
	low := make([]MaterialTotal, 0)
	for _, t := range totals {
		if t.Total < t.MinStock {
			low = append(low, t)
		}
	}
	return low, nil
}

func checkWarehouse(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Warehouse{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("warehouse %d: %w", id, ErrNotFound)
	}
	return nil
}

func checkMaterial(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Material{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("material %d: %w", id, ErrNotFound)
	}
	return nil
}

// decrement applies a guarded atomic decrement. The quantity >= qty predicate
// keeps the ledger non-negative even under concurrent writers: the row lock
// taken by UPDATE serializes operations on the same (warehouse, material).
func decrement(tx *gorm.DB, warehouseID, materialID uint, qty int) error {
	res := tx.Model(&models.WarehouseStock{}).
		Where("warehouse_id = ? AND material_id = ? AND quantity >= ?", warehouseID, materialID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		available := 0
		var entry models.WarehouseStock
		if err := tx.Where("warehouse_id = ? AND material_id = ?", warehouseID, materialID).
			First(&entry).Error; err == nil {
			available = entry.Quantity
		}
		return &ShortageError{
			WarehouseID: warehouseID,
			MaterialID:  materialID,
			Requested:   qty,
			Available:   available,
		}
	}
	return nil
}

func increment(tx *gorm.DB, warehouseID, materialID uint, qty int) error {
	res := tx.Model(&models.WarehouseStock{}).
		Where("warehouse_id = ? AND material_id = ?", warehouseID, materialID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tx.Create(&models.WarehouseStock{
			WarehouseID: warehouseID,
			MaterialID:  materialID,
			Quantity:    qty,
		}).Error
	}
	return nil
}
