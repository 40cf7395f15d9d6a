package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/articotec/fieldgo/internal/models"
)

// listWarehouses returns all warehouses with their assigned technicians
func (r *Router) listWarehouses(w http.ResponseWriter, req *http.Request) {
	var warehouses []models.Warehouse
	if err := r.db.Preload("Technician").Order("id").Find(&warehouses).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch warehouses")
		return
	}
	respondJSON(w, http.StatusOK, warehouses)
}

// createWarehouse creates a new warehouse
func (r *Router) createWarehouse(w http.ResponseWriter, req *http.Request) {
	var warehouse models.Warehouse
	if err := json.NewDecoder(req.Body).Decode(&warehouse); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if warehouse.Name == "" {
		respondError(w, http.StatusBadRequest, "Warehouse name is required")
		return
	}

	if err := r.db.Create(&warehouse).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create warehouse")
		return
	}
	respondJSON(w, http.StatusCreated, warehouse)
}

// updateWarehouse edits a warehouse's name or technician assignment
func (r *Router) updateWarehouse(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid warehouse ID")
		return
	}

	var warehouse models.Warehouse
	if err := r.db.First(&warehouse, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Warehouse not found")
		return
	}

	var in struct {
		Name         *string `json:"name"`
		TechnicianID *uint   `json:"technician_id"`
		IsMain       *bool   `json:"is_main"`
	}
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if in.Name != nil {
		warehouse.Name = *in.Name
	}
	if in.TechnicianID != nil {
		if *in.TechnicianID == 0 {
			warehouse.TechnicianID = nil
		} else {
			warehouse.TechnicianID = in.TechnicianID
		}
	}
	if in.IsMain != nil {
		warehouse.IsMain = *in.IsMain
	}

	if err := r.db.Save(&warehouse).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update warehouse")
		return
	}
	respondJSON(w, http.StatusOK, warehouse)
}

// deleteWarehouse deletes a warehouse. Warehouses still holding stock or
// referenced by usage history cannot be deleted.
func (r *Router) deleteWarehouse(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid warehouse ID")
		return
	}

	var warehouse models.Warehouse
	if err := r.db.First(&warehouse, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Warehouse not found")
		return
	}

	var stocked int64
	r.db.Model(&models.WarehouseStock{}).
		Where("warehouse_id = ? AND quantity > 0", id).
		Count(&stocked)
	if stocked > 0 {
		respondError(w, http.StatusConflict, "Warehouse still holds stock; transfer it out first")
		return
	}
	var used int64
	r.db.Model(&models.OrderMaterialUsage{}).Where("warehouse_id = ?", id).Count(&used)
	if used > 0 {
		respondError(w, http.StatusConflict, "Warehouse is referenced by work order history")
		return
	}

	if err := r.db.Where("warehouse_id = ?", id).Delete(&models.WarehouseStock{}).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete warehouse")
		return
	}
	if err := r.db.Delete(&warehouse).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete warehouse")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Warehouse deleted successfully",
	})
}

// warehouseInventory returns the stock snapshot of one warehouse
func (r *Router) warehouseInventory(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid warehouse ID")
		return
	}

	items, err := r.ledger.Snapshot(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// TransferRequest moves stock between two warehouses
type TransferRequest struct {
	FromWarehouseID uint `json:"from_warehouse_id"`
	ToWarehouseID   uint `json:"to_warehouse_id"`
	MaterialID      uint `json:"material_id"`
	Quantity        int  `json:"quantity"`
}

// transferMaterial moves material stock between warehouses
func (r *Router) transferMaterial(w http.ResponseWriter, req *http.Request) {
	var transfer TransferRequest
	if err := json.NewDecoder(req.Body).Decode(&transfer); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if transfer.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "Transfer quantity must be positive")
		return
	}

	err := r.ledger.Transfer(transfer.FromWarehouseID, transfer.ToWarehouseID,
		transfer.MaterialID, transfer.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Transfer completed successfully",
	})
}

// RestockRequest credits stock into a warehouse
type RestockRequest struct {
	MaterialID uint `json:"material_id"`
	Quantity   int  `json:"quantity"`
}

// restockWarehouse adds incoming stock to a warehouse
func (r *Router) restockWarehouse(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid warehouse ID")
		return
	}

	var restock RestockRequest
	if err := json.NewDecoder(req.Body).Decode(&restock); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if restock.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "Restock quantity must be positive")
		return
	}

	if err := r.ledger.Add(id, restock.MaterialID, restock.Quantity); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Stock added successfully",
	})
}
