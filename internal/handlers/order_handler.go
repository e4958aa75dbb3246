package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/expocc/showdesk/internal/models"
	"github.com/expocc/showdesk/internal/service"
	"github.com/gorilla/mux"
)

// forceRefreshParam is the boolean query parameter that bypasses the
// cache for a single request.
const forceRefreshParam = "force_refresh"

type OrderHandler struct {
	service         service.OrderService
	sheetsConnected bool
	cacheTTL        time.Duration
}

func NewOrderHandler(service service.OrderService, sheetsConnected bool, cacheTTL time.Duration) *OrderHandler {
	return &OrderHandler{
		service:         service,
		sheetsConnected: sheetsConnected,
		cacheTTL:        cacheTTL,
	}
}

func (h *OrderHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/api/system-status", h.SystemStatus).Methods(http.MethodGet)
	router.HandleFunc("/api/orders", h.GetAllOrders).Methods(http.MethodGet)
	router.HandleFunc("/api/orders", h.AddOrder).Methods(http.MethodPost)
	router.HandleFunc("/api/orders", h.DeleteOrder).Methods(http.MethodDelete)
	router.HandleFunc("/api/orders/status", h.UpdateOrderStatus).Methods(http.MethodPut)
	router.HandleFunc("/api/orders/exhibitor/{name}", h.GetOrdersByExhibitor).Methods(http.MethodGet)
	router.HandleFunc("/api/orders/booth/{booth}", h.GetOrdersByBooth).Methods(http.MethodGet)
	router.HandleFunc("/api/exhibitors", h.GetExhibitors).Methods(http.MethodGet)
	router.HandleFunc("/api/inventory", h.GetInventory).Methods(http.MethodGet)
	router.HandleFunc("/api/worksheets", h.GetWorksheets).Methods(http.MethodGet)
	router.HandleFunc("/api/clear-cache", h.ClearCache).Methods(http.MethodPost)
}

func (h *OrderHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":                  "healthy",
		"timestamp":               time.Now().Format(time.RFC3339),
		"google_sheets_connected": h.sheetsConnected,
		"cache_size":              h.service.CacheSize(),
	})
}

func (h *OrderHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"platform":               "Expo Convention Contractors",
		"status":                 "connected",
		"database":               "Google Sheets",
		"last_sync":              time.Now().Format(time.RFC3339),
		"cache_enabled":          true,
		"cache_duration_seconds": int(h.cacheTTL.Seconds()),
	})
}

func (h *OrderHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.service.GetAllOrders(r.Context(), forceRefresh(r))
	if orders == nil {
		orders = []models.Order{}
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrdersByExhibitor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["name"]

	result := h.service.GetOrdersForExhibitor(r.Context(), name, forceRefresh(r))
	respondWithJSON(w, http.StatusOK, result)
}

func (h *OrderHandler) GetOrdersByBooth(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	booth := vars["booth"]

	orders := h.service.GetOrdersForBooth(r.Context(), booth, forceRefresh(r))
	if orders == nil {
		orders = []models.Order{}
	}
	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetExhibitors(w http.ResponseWriter, r *http.Request) {
	exhibitors := h.service.GetAllExhibitors(r.Context(), forceRefresh(r))
	if exhibitors == nil {
		exhibitors = []models.Exhibitor{}
	}
	respondWithJSON(w, http.StatusOK, exhibitors)
}

func (h *OrderHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	items := h.service.GetInventory(r.Context(), forceRefresh(r))
	if items == nil {
		items = []models.InventoryItem{}
	}
	respondWithJSON(w, http.StatusOK, items)
}

func (h *OrderHandler) GetWorksheets(w http.ResponseWriter, r *http.Request) {
	names := h.service.ListWorksheets(r.Context(), forceRefresh(r))
	if names == nil {
		names = []string{}
	}
	respondWithJSON(w, http.StatusOK, names)
}

func (h *OrderHandler) AddOrder(w http.ResponseWriter, r *http.Request) {
	var req models.AddOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.service.AddOrder(r.Context(), &req) {
		respondWithError(w, http.StatusInternalServerError, "Failed to add order")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "Order added"})
}

func (h *OrderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Failure is generic: an unmatched row, a missing Status column, and
	// an unreachable worksheet are indistinguishable here.
	if !h.service.UpdateOrderStatus(r.Context(), &req) {
		respondWithError(w, http.StatusInternalServerError, "Failed to update order status")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Order status updated"})
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.service.DeleteOrder(r.Context(), &req) {
		respondWithError(w, http.StatusInternalServerError, "Failed to delete order")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Order deleted"})
}

func (h *OrderHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCache()
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Cache cleared"})
}

func forceRefresh(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get(forceRefreshParam), "true")
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
