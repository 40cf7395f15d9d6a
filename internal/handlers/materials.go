package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/articotec/fieldgo/internal/models"
)

// materialResponse is a material enriched with its computed global stock
type materialResponse struct {
	models.Material
	Stock int `json:"stock"`
}

// listMaterials returns all materials with their computed global stock
func (r *Router) listMaterials(w http.ResponseWriter, req *http.Request) {
	var materials []models.Material
	if err := r.db.Order("name").Find(&materials).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch materials")
		return
	}

	totals, err := r.ledger.Totals()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch stock totals")
		return
	}
	totalByID := make(map[uint]int, len(totals))
	for _, t := range totals {
		totalByID[t.MaterialID] = t.Total
	}

	resp := make([]materialResponse, 0, len(materials))
	for _, m := range materials {
		resp = append(resp, materialResponse{Material: m, Stock: totalByID[m.ID]})
	}
	respondJSON(w, http.StatusOK, resp)
}

// lowStockMaterials returns materials whose global stock is below min_stock
func (r *Router) lowStockMaterials(w http.ResponseWriter, req *http.Request) {
	low, err := r.ledger.LowStock()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch low stock materials")
		return
	}
	respondJSON(w, http.StatusOK, low)
}

// materialStock returns where a material's stock sits, warehouse by warehouse
func (r *Router) materialStock(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid material ID")
		return
	}

	holdings, err := r.ledger.Distribution(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	total := 0
	for _, h := range holdings {
		total += h.Quantity
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"material_id": id,
		"total":       total,
		"warehouses":  holdings,
	})
}

// createMaterial creates a new material
func (r *Router) createMaterial(w http.ResponseWriter, req *http.Request) {
	var material models.Material
	if err := json.NewDecoder(req.Body).Decode(&material); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if material.Name == "" {
		respondError(w, http.StatusBadRequest, "Material name is required")
		return
	}
	if material.MinStock < 0 {
		respondError(w, http.StatusBadRequest, "min_stock must not be negative")
		return
	}

	if err := r.db.Create(&material).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create material")
		return
	}
	respondJSON(w, http.StatusCreated, materialResponse{Material: material})
}

// updateMaterial edits an existing material
func (r *Router) updateMaterial(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid material ID")
		return
	}

	var material models.Material
	if err := r.db.First(&material, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Material not found")
		return
	}

	var in struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Unit        *string `json:"unit"`
		MinStock    *int    `json:"min_stock"`
	}
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if in.Name != nil {
		material.Name = *in.Name
	}
	if in.Description != nil {
		material.Description = *in.Description
	}
	if in.Unit != nil {
		material.Unit = *in.Unit
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			respondError(w, http.StatusBadRequest, "min_stock must not be negative")
			return
		}
		material.MinStock = *in.MinStock
	}

	if err := r.db.Save(&material).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update material")
		return
	}
	respondJSON(w, http.StatusOK, material)
}

// deleteMaterial deletes a material unless stock or usage history still
// references it
func (r *Router) deleteMaterial(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid material ID")
		return
	}

	var material models.Material
	if err := r.db.First(&material, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Material not found")
		return
	}

	var stocked int64
	r.db.Model(&models.WarehouseStock{}).
		Where("material_id = ? AND quantity > 0", id).
		Count(&stocked)
	if stocked > 0 {
		respondError(w, http.StatusConflict, "Material still has stock in warehouses")
		return
	}
	var used int64
	r.db.Model(&models.OrderMaterialUsage{}).Where("material_id = ?", id).Count(&used)
	if used > 0 {
		respondError(w, http.StatusConflict, "Material is referenced by work order history")
		return
	}

	if err := r.db.Where("material_id = ?", id).Delete(&models.WarehouseStock{}).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete material")
		return
	}
	if err := r.db.Delete(&material).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete material")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Material deleted successfully",
	})
}
