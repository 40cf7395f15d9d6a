package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/articotec/fieldgo/internal/config"
	"github.com/articotec/fieldgo/internal/database"
	"github.com/articotec/fieldgo/internal/models"
	"github.com/articotec/fieldgo/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRouterTest(t *testing.T) (*Router, string) {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	err = gormDB.AutoMigrate(
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

	cfg := &config.Config{JWTSecret: "test-secret"}
	router := NewRouter(&database.DB{DB: gormDB}, cfg)

	hash, err := utils.HashPassword("admin123")
	require.NoError(t, err)
	user := models.User{Username: "admin", Password: hash, Role: "admin", IsActive: true}
	require.NoError(t, gormDB.Create(&user).Error)

	token, _, err := utils.GenerateTokens(&user, cfg.JWTSecret)
	require.NoError(t, err)

	return router, token
}

func doJSON(t *testing.T, router *Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(data)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupRouterTest(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestLogin(t *testing.T) {
	router, _ := setupRouterTest(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin",
		"password": "admin123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	tokens := body["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["accessToken"])
	assert.NotEmpty(t, tokens["refreshToken"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "admin", user["username"])
	// Password hash must never leak
	_, leaked := user["password"]
	assert.False(t, leaked)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := setupRouterTest(t)

	rec := doJSON(t, router, http.MethodGet, "/api/work-orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/materials", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWorkOrderCloseFlow(t *testing.T) {
	router, token := setupRouterTest(t)

	// Seed a material and warehouse, then restock
	rec := doJSON(t, router, http.MethodPost, "/api/materials", token, map[string]interface{}{
		"name": "Refrigerant", "unit": "kg", "min_stock": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	materialID := uint(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(t, router, http.MethodPost, "/api/warehouses", token, map[string]interface{}{
		"name": "Central", "is_main": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	warehouseID := uint(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/warehouses/%d/restock", warehouseID), token, map[string]interface{}{
		"material_id": materialID, "quantity": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Create and close a work order consuming 3 units
	rec = doJSON(t, router, http.MethodPost, "/api/work-orders", token, map[string]interface{}{
		"title": "Cold room not cooling",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := uint(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/work-orders/%d/close", orderID), token, map[string]interface{}{
		"warehouse_id": warehouseID,
		"materials":    []map[string]interface{}{{"material_id": materialID, "quantity": 3}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	closed := decodeBody(t, rec)
	assert.Equal(t, "completed", closed["status"])
	assert.NotNil(t, closed["closed_by"])

	// Closing again conflicts
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/work-orders/%d/close", orderID), token, map[string]interface{}{
		"warehouse_id": warehouseID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Inventory reflects the consumption
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/warehouses/%d/inventory", warehouseID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, float64(7), items[0]["quantity"])

	// Usage history is recorded
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/work-orders/%d/materials", orderID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var usage []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usage))
	require.Len(t, usage, 1)
	assert.Equal(t, float64(3), usage[0]["quantity"])
}

func TestCloseWithInsufficientStock(t *testing.T) {
	router, token := setupRouterTest(t)

	rec := doJSON(t, router, http.MethodPost, "/api/materials", token, map[string]interface{}{
		"name": "Compressor", "unit": "unidad",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	materialID := uint(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(t, router, http.MethodPost, "/api/warehouses", token, map[string]interface{}{"name": "Van"})
	require.Equal(t, http.StatusCreated, rec.Code)
	warehouseID := uint(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(t, router, http.MethodPost, "/api/work-orders", token, map[string]interface{}{"title": "Replace compressor"})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := uint(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/work-orders/%d/close", orderID), token, map[string]interface{}{
		"warehouse_id": warehouseID,
		"materials":    []map[string]interface{}{{"material_id": materialID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The order stays open
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/work-orders/%d", orderID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", decodeBody(t, rec)["status"])
}

func TestTransferEndpoint(t *testing.T) {
	router, token := setupRouterTest(t)

	rec := doJSON(t, router, http.MethodPost, "/api/materials", token, map[string]interface{}{"name": "Pipe", "unit": "m"})
	materialID := uint(decodeBody(t, rec)["id"].(float64))
	rec = doJSON(t, router, http.MethodPost, "/api/warehouses", token, map[string]interface{}{"name": "Central"})
	fromID := uint(decodeBody(t, rec)["id"].(float64))
	rec = doJSON(t, router, http.MethodPost, "/api/warehouses", token, map[string]interface{}{"name": "Van"})
	toID := uint(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/warehouses/%d/restock", fromID), token, map[string]interface{}{
		"material_id": materialID, "quantity": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/warehouses/transfer", token, map[string]interface{}{
		"from_warehouse_id": fromID, "to_warehouse_id": toID,
		"material_id": materialID, "quantity": 4,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/warehouses/%d/inventory", toID), token, nil)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, float64(4), items[0]["quantity"])

	// Overdraw is rejected
	rec = doJSON(t, router, http.MethodPost, "/api/warehouses/transfer", token, map[string]interface{}{
		"from_warehouse_id": fromID, "to_warehouse_id": toID,
		"material_id": materialID, "quantity": 100,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteGuards(t *testing.T) {
	router, token := setupRouterTest(t)

	rec := doJSON(t, router, http.MethodPost, "/api/technicians", token, map[string]interface{}{"name": "Juan Perez"})
	require.Equal(t, http.StatusCreated, rec.Code)
	techID := uint(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(t, router, http.MethodPost, "/api/work-orders", token, map[string]interface{}{
		"title": "Inspection", "technician_id": techID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := uint(decodeBody(t, rec)["id"].(float64))

	// Referenced technician cannot be deleted
	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/technicians/%d", techID), token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// After the order is gone the technician can be removed
	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/work-orders/%d", orderID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/technicians/%d", techID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMaterialListIncludesComputedStock(t *testing.T) {
	router, token := setupRouterTest(t)

	rec := doJSON(t, router, http.MethodPost, "/api/materials", token, map[string]interface{}{
		"name": "Thermostat", "unit": "unidad", "min_stock": 5,
	})
	materialID := uint(decodeBody(t, rec)["id"].(float64))
	rec = doJSON(t, router, http.MethodPost, "/api/warehouses", token, map[string]interface{}{"name": "A"})
	firstID := uint(decodeBody(t, rec)["id"].(float64))
	rec = doJSON(t, router, http.MethodPost, "/api/warehouses", token, map[string]interface{}{"name": "B"})
	secondID := uint(decodeBody(t, rec)["id"].(float64))

	doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/warehouses/%d/restock", firstID), token, map[string]interface{}{
		"material_id": materialID, "quantity": 2,
	})
	doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/warehouses/%d/restock", secondID), token, map[string]interface{}{
		"material_id": materialID, "quantity": 1,
	})

	rec = doJSON(t, router, http.MethodGet, "/api/materials", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var materials []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &materials))
	require.Len(t, materials, 1)
	assert.Equal(t, float64(3), materials[0]["stock"])

	// Below min_stock, so it shows up in the low stock list
	rec = doJSON(t, router, http.MethodGet, "/api/materials/low-stock", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var low []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &low))
	require.Len(t, low, 1)
	assert.Equal(t, float64(3), low[0]["total"])
}
