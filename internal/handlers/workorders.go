package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/articotec/fieldgo/internal/inventory"
	"github.com/articotec/fieldgo/internal/models"
	"github.com/articotec/fieldgo/internal/orders"
	"github.com/articotec/fieldgo/internal/printer"
	"github.com/gorilla/mux"
)

// workOrderResponse flattens the client/technician names next to the order,
// which is the shape the dashboard tables consume
type workOrderResponse struct {
	models.WorkOrder
	ClientName     string `json:"client_name,omitempty"`
	TechnicianName string `json:"technician_name,omitempty"`
}

func toWorkOrderResponse(o models.WorkOrder) workOrderResponse {
	resp := workOrderResponse{WorkOrder: o}
	if o.Client != nil {
		resp.ClientName = o.Client.Name
	}
	if o.Technician != nil {
		resp.TechnicianName = o.Technician.Name
	}
	return resp
}

func pathID(req *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	return uint(id), err
}

// listWorkOrders returns all work orders, optionally filtered by query params
func (r *Router) listWorkOrders(w http.ResponseWriter, req *http.Request) {
	filter := orders.ListFilter{
		Status: models.OrderStatus(req.URL.Query().Get("status")),
	}
	if v := req.URL.Query().Get("technician_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid technician_id")
			return
		}
		filter.TechnicianID = uint(id)
	}
	if v := req.URL.Query().Get("client_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid client_id")
			return
		}
		filter.ClientID = uint(id)
	}

	list, err := r.orders.List(filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch work orders")
		return
	}

	resp := make([]workOrderResponse, 0, len(list))
	for _, o := range list {
		resp = append(resp, toWorkOrderResponse(o))
	}
	respondJSON(w, http.StatusOK, resp)
}

// getWorkOrder returns a single work order by ID
func (r *Router) getWorkOrder(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}

	order, err := r.orders.Get(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toWorkOrderResponse(*order))
}

// createWorkOrder creates a new work order
func (r *Router) createWorkOrder(w http.ResponseWriter, req *http.Request) {
	var in orders.CreateInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	order, err := r.orders.Create(in)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toWorkOrderResponse(*order))
}

// updateWorkOrder edits an existing work order
func (r *Router) updateWorkOrder(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}

	var in orders.UpdateInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	order, err := r.orders.Update(id, in)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toWorkOrderResponse(*order))
}

// deleteWorkOrder deletes a work order and its usage history
func (r *Router) deleteWorkOrder(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}

	if err := r.orders.Delete(id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Work order deleted successfully",
	})
}

// CloseOrderRequest is the payload for closing a work order
type CloseOrderRequest struct {
	WarehouseID uint                  `json:"warehouse_id"`
	Materials   []inventory.UsageLine `json:"materials"`
}

// closeWorkOrder consumes inventory and marks the order completed
func (r *Router) closeWorkOrder(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}

	var closeReq CloseOrderRequest
	if err := json.NewDecoder(req.Body).Decode(&closeReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	actorID, ok := actorFromRequest(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing token claims")
		return
	}

	order, err := r.orders.Close(id, actorID, closeReq.WarehouseID, closeReq.Materials)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toWorkOrderResponse(*order))
}

// workOrderMaterials returns the materials consumed when the order was closed
func (r *Router) workOrderMaterials(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}

	usage, err := r.orders.Usage(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, usage)
}

// workOrderSheet returns a printable PDF sheet for the order
func (r *Router) workOrderSheet(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid work order ID")
		return
	}

	order, err := r.orders.Get(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	usage, err := r.orders.Usage(id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	pdf, err := printer.OrderSheetPDF(order, usage)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate sheet")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="work-order-%d.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
