package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/articotec/fieldgo/internal/models"
)

// listTechnicians returns all technicians
func (r *Router) listTechnicians(w http.ResponseWriter, req *http.Request) {
	var technicians []models.Technician
	query := r.db.Order("name")
	if status := req.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&technicians).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch technicians")
		return
	}
	respondJSON(w, http.StatusOK, technicians)
}

// createTechnician creates a new technician
func (r *Router) createTechnician(w http.ResponseWriter, req *http.Request) {
	var technician models.Technician
	if err := json.NewDecoder(req.Body).Decode(&technician); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if technician.Name == "" {
		respondError(w, http.StatusBadRequest, "Technician name is required")
		return
	}
	if technician.Status == "" {
		technician.Status = models.TechnicianActive
	}

	if err := r.db.Create(&technician).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create technician")
		return
	}
	respondJSON(w, http.StatusCreated, technician)
}

// updateTechnician edits an existing technician
func (r *Router) updateTechnician(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid technician ID")
		return
	}

	var technician models.Technician
	if err := r.db.First(&technician, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Technician not found")
		return
	}

	var in struct {
		Name           *string                  `json:"name"`
		Phone          *string                  `json:"phone"`
		Email          *string                  `json:"email"`
		Specialization *string                  `json:"specialization"`
		Status         *models.TechnicianStatus `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if in.Name != nil {
		technician.Name = *in.Name
	}
	if in.Phone != nil {
		technician.Phone = *in.Phone
	}
	if in.Email != nil {
		technician.Email = *in.Email
	}
	if in.Specialization != nil {
		technician.Specialization = *in.Specialization
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			respondError(w, http.StatusBadRequest, "Invalid technician status")
			return
		}
		technician.Status = *in.Status
	}

	if err := r.db.Save(&technician).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update technician")
		return
	}
	respondJSON(w, http.StatusOK, technician)
}

// deleteTechnician deletes a technician unless warehouses or orders still
// reference them
func (r *Router) deleteTechnician(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid technician ID")
		return
	}

	var technician models.Technician
	if err := r.db.First(&technician, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Technician not found")
		return
	}

	var warehouses int64
	r.db.Model(&models.Warehouse{}).Where("technician_id = ?", id).Count(&warehouses)
	if warehouses > 0 {
		respondError(w, http.StatusConflict, "Technician has an assigned warehouse; reassign it first")
		return
	}
	var orders int64
	r.db.Model(&models.WorkOrder{}).Where("technician_id = ?", id).Count(&orders)
	if orders > 0 {
		respondError(w, http.StatusConflict, "Technician has assigned work orders; reassign them first")
		return
	}

	if err := r.db.Delete(&technician).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete technician")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Technician deleted successfully",
	})
}

// listClients returns all clients
func (r *Router) listClients(w http.ResponseWriter, req *http.Request) {
	var clients []models.Client
	if err := r.db.Order("name").Find(&clients).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch clients")
		return
	}
	respondJSON(w, http.StatusOK, clients)
}

// createClient creates a new client
func (r *Router) createClient(w http.ResponseWriter, req *http.Request) {
	var client models.Client
	if err := json.NewDecoder(req.Body).Decode(&client); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if client.Name == "" {
		respondError(w, http.StatusBadRequest, "Client name is required")
		return
	}

	if err := r.db.Create(&client).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create client")
		return
	}
	respondJSON(w, http.StatusCreated, client)
}

// updateClient edits an existing client
func (r *Router) updateClient(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	var client models.Client
	if err := r.db.First(&client, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Client not found")
		return
	}

	var in struct {
		Name    *string `json:"name"`
		Phone   *string `json:"phone"`
		Email   *string `json:"email"`
		Address *string `json:"address"`
	}
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if in.Name != nil {
		client.Name = *in.Name
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Email != nil {
		client.Email = *in.Email
	}
	if in.Address != nil {
		client.Address = *in.Address
	}

	if err := r.db.Save(&client).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update client")
		return
	}
	respondJSON(w, http.StatusOK, client)
}

// deleteClient deletes a client unless work orders still reference them
func (r *Router) deleteClient(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	var client models.Client
	if err := r.db.First(&client, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Client not found")
		return
	}

	var orders int64
	r.db.Model(&models.WorkOrder{}).Where("client_id = ?", id).Count(&orders)
	if orders > 0 {
		respondError(w, http.StatusConflict, "Client has work orders; delete or reassign them first")
		return
	}

	if err := r.db.Delete(&client).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete client")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Client deleted successfully",
	})
}
