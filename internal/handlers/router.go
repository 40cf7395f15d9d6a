package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/articotec/fieldgo/internal/backup"
	"github.com/articotec/fieldgo/internal/config"
	"github.com/articotec/fieldgo/internal/database"
	"github.com/articotec/fieldgo/internal/inventory"
	"github.com/articotec/fieldgo/internal/middleware"
	"github.com/articotec/fieldgo/internal/orders"
	"github.com/articotec/fieldgo/internal/reports"
	"github.com/articotec/fieldgo/internal/utils"
	"github.com/gorilla/mux"
)

// Router wraps the mux router and the domain services
type Router struct {
	*mux.Router
	db      *database.DB
	secret  string
	ledger  *inventory.Ledger
	orders  *orders.Service
	reports *reports.Service
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config) *Router {
	ledger := inventory.NewLedger(db.DB)
	r := &Router{
		Router:  mux.NewRouter(),
		db:      db,
		secret:  cfg.JWTSecret,
		ledger:  ledger,
		orders:  orders.NewService(db.DB, ledger),
		reports: reports.NewService(db.DB),
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Public auth routes
	r.HandleFunc("/api/auth/login", r.login).Methods("POST")

	// Everything else under /api requires a valid token
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	// Work order routes
	api.HandleFunc("/work-orders", r.listWorkOrders).Methods("GET")
	api.HandleFunc("/work-orders", r.createWorkOrder).Methods("POST")
	api.HandleFunc("/work-orders/{id}", r.getWorkOrder).Methods("GET")
	api.HandleFunc("/work-orders/{id}", r.updateWorkOrder).Methods("PUT")
	api.HandleFunc("/work-orders/{id}", r.deleteWorkOrder).Methods("DELETE")
	api.HandleFunc("/work-orders/{id}/close", r.closeWorkOrder).Methods("POST")
	api.HandleFunc("/work-orders/{id}/materials", r.workOrderMaterials).Methods("GET")
	api.HandleFunc("/work-orders/{id}/sheet", r.workOrderSheet).Methods("GET")

	// Warehouse routes
	api.HandleFunc("/warehouses", r.listWarehouses).Methods("GET")
	api.HandleFunc("/warehouses", r.createWarehouse).Methods("POST")
	api.HandleFunc("/warehouses/transfer", r.transferMaterial).Methods("POST")
	api.HandleFunc("/warehouses/{id}", r.updateWarehouse).Methods("PUT")
	api.HandleFunc("/warehouses/{id}", r.deleteWarehouse).Methods("DELETE")
	api.HandleFunc("/warehouses/{id}/inventory", r.warehouseInventory).Methods("GET")
	api.HandleFunc("/warehouses/{id}/restock", r.restockWarehouse).Methods("POST")

	// Directory routes
	api.HandleFunc("/technicians", r.listTechnicians).Methods("GET")
	api.HandleFunc("/technicians", r.createTechnician).Methods("POST")
	api.HandleFunc("/technicians/{id}", r.updateTechnician).Methods("PUT")
	api.HandleFunc("/technicians/{id}", r.deleteTechnician).Methods("DELETE")
	api.HandleFunc("/clients", r.listClients).Methods("GET")
	api.HandleFunc("/clients", r.createClient).Methods("POST")
	api.HandleFunc("/clients/{id}", r.updateClient).Methods("PUT")
	api.HandleFunc("/clients/{id}", r.deleteClient).Methods("DELETE")

	// Material routes
	api.HandleFunc("/materials", r.listMaterials).Methods("GET")
	api.HandleFunc("/materials/low-stock", r.lowStockMaterials).Methods("GET")
	api.HandleFunc("/materials", r.createMaterial).Methods("POST")
	api.HandleFunc("/materials/{id}/stock", r.materialStock).Methods("GET")
	api.HandleFunc("/materials/{id}", r.updateMaterial).Methods("PUT")
	api.HandleFunc("/materials/{id}", r.deleteMaterial).Methods("DELETE")

	// User routes
	api.HandleFunc("/users", r.listUsers).Methods("GET")
	api.HandleFunc("/users", r.createUser).Methods("POST")
	api.HandleFunc("/users/{id}", r.updateUser).Methods("PUT")
	api.HandleFunc("/users/{id}", r.deleteUser).Methods("DELETE")

	// Report routes
	api.HandleFunc("/reports/orders-by-technician", r.ordersByTechnicianReport).Methods("GET")
	api.HandleFunc("/reports/client-activity", r.clientActivityReport).Methods("GET")
	api.HandleFunc("/reports/material-usage", r.materialUsageReport).Methods("GET")

	// Backup routes
	api.HandleFunc("/backup/export", r.exportBackup).Methods("GET")
	api.HandleFunc("/backup/restore", r.restoreBackup).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// actorFromRequest extracts the authenticated user's ID from the token claims
func actorFromRequest(req *http.Request) (uint, bool) {
	claims, ok := middleware.ClaimsFromContext(req.Context())
	if !ok {
		return 0, false
	}
	return utils.UserIDFromClaims(claims)
}

// respondDomainError maps domain errors onto HTTP statuses
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, inventory.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orders.ErrAlreadyCompleted), errors.Is(err, inventory.ErrInsufficientStock):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, orders.ErrValidation), errors.Is(err, backup.ErrInvalidArchive):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
