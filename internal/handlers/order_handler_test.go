package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/expocc/showdesk/internal/cache"
	"github.com/expocc/showdesk/internal/models"
	"github.com/expocc/showdesk/internal/service"
	"github.com/gorilla/mux"
)

type fakeService struct {
	orders     []models.Order
	exhibitors []models.Exhibitor
	inventory  []models.InventoryItem
	worksheets []string
	mutationOK bool

	lastForceRefresh bool
	cacheCleared     bool
}

func (f *fakeService) GetAllOrders(_ context.Context, forceRefresh bool) []models.Order {
	f.lastForceRefresh = forceRefresh
	return f.orders
}

func (f *fakeService) GetAllExhibitors(_ context.Context, forceRefresh bool) []models.Exhibitor {
	f.lastForceRefresh = forceRefresh
	return f.exhibitors
}

func (f *fakeService) GetOrdersForExhibitor(_ context.Context, name string, forceRefresh bool) *models.ExhibitorOrders {
	f.lastForceRefresh = forceRefresh
	var matched []models.Order
	delivered := 0
	for _, o := range f.orders {
		if strings.EqualFold(o.ExhibitorName, name) {
			matched = append(matched, o)
			if o.Status == models.StatusDelivered {
				delivered++
			}
		}
	}
	return &models.ExhibitorOrders{
		Exhibitor:       name,
		Orders:          matched,
		TotalOrders:     len(matched),
		DeliveredOrders: delivered,
		LastUpdated:     time.Now(),
	}
}

func (f *fakeService) GetOrdersForBooth(_ context.Context, booth string, forceRefresh bool) []models.Order {
	var matched []models.Order
	for _, o := range f.orders {
		if o.BoothNumber == booth {
			matched = append(matched, o)
		}
	}
	return matched
}

func (f *fakeService) GetInventory(_ context.Context, forceRefresh bool) []models.InventoryItem {
	return f.inventory
}

func (f *fakeService) ListWorksheets(_ context.Context, forceRefresh bool) []string {
	return f.worksheets
}

func (f *fakeService) AddOrder(_ context.Context, _ *models.AddOrderRequest) bool {
	return f.mutationOK
}

func (f *fakeService) UpdateOrderStatus(_ context.Context, _ *models.UpdateOrderStatusRequest) bool {
	return f.mutationOK
}

func (f *fakeService) DeleteOrder(_ context.Context, _ *models.DeleteOrderRequest) bool {
	return f.mutationOK
}

func (f *fakeService) ClearCache() { f.cacheCleared = true }

func (f *fakeService) CacheSize() int { return 0 }

func newTestRouter(svc *fakeService) *mux.Router {
	handler := NewOrderHandler(svc, true, 30*time.Second)
	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestGetAllOrders(t *testing.T) {
	svc := &fakeService{orders: []models.Order{{ID: "ORD-1", BoothNumber: "A-101"}}}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var orders []models.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &orders); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != "ORD-1" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetAllOrdersEmptyIsJSONArray(t *testing.T) {
	router := newTestRouter(&fakeService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty JSON array, got %s", rec.Body.String())
	}
}

func TestForceRefreshQueryParam(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	if svc.lastForceRefresh {
		t.Fatal("expected force refresh off by default")
	}

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders?force_refresh=true", nil))
	if !svc.lastForceRefresh {
		t.Fatal("expected force_refresh=true to bypass the cache")
	}

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders?force_refresh=1", nil))
	if svc.lastForceRefresh {
		t.Fatal("expected only the literal \"true\" to force refresh")
	}
}

func TestGetOrdersByExhibitor(t *testing.T) {
	svc := &fakeService{orders: []models.Order{
		{ID: "ORD-1", ExhibitorName: "Acme Corp", Status: models.StatusDelivered},
		{ID: "ORD-2", ExhibitorName: "Widget Co"},
	}}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/exhibitor/Acme%20Corp", nil))

	var result models.ExhibitorOrders
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Exhibitor != "Acme Corp" || result.TotalOrders != 1 || result.DeliveredOrders != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestAddOrderValidation(t *testing.T) {
	router := newTestRouter(&fakeService{mutationOK: true})

	body := strings.NewReader(`{"booth_number":"A-101","item":"Chair"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing exhibitor_name, got %d", rec.Code)
	}
}

func TestAddOrderSuccess(t *testing.T) {
	router := newTestRouter(&fakeService{mutationOK: true})

	body := strings.NewReader(`{"booth_number":"A-101","exhibitor_name":"Acme Corp","item":"Chair","quantity":2}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateOrderStatusFailure(t *testing.T) {
	router := newTestRouter(&fakeService{mutationOK: false})

	body := strings.NewReader(`{"booth_number":"Z-999","item":"Chair","status":"Delivered"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/orders/status", body))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unmatched order, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["error"] == "" {
		t.Fatal("expected error message in body")
	}
}

func TestDeleteOrderBadPayload(t *testing.T) {
	router := newTestRouter(&fakeService{mutationOK: true})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/orders", strings.NewReader("not-json")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestClearCache(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/clear-cache", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !svc.cacheCleared {
		t.Fatal("expected cache to be cleared")
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&fakeService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Fatalf("unexpected health response: %v", resp)
	}
	if resp["google_sheets_connected"] != true {
		t.Fatalf("expected sheets connected flag, got %v", resp)
	}
}

// emptyRepo backs a real service+cache so concurrent handler requests
// exercise the shared cached object.
type emptyRepo struct{}

func (emptyRepo) FetchTable(context.Context, string) [][]string            { return nil }
func (emptyRepo) ListWorksheets(context.Context) []string                  { return nil }
func (emptyRepo) GetAllOrders(context.Context) []models.Order              { return nil }
func (emptyRepo) GetAllExhibitors(context.Context) []models.Exhibitor      { return nil }
func (emptyRepo) GetOrdersForExhibitor(context.Context, string) []models.Order {
	return nil
}
func (emptyRepo) UpdateOrderStatus(_ context.Context, _, _, _, _, _, _ string) bool {
	return false
}
func (emptyRepo) AddOrder(context.Context, string, *models.AddOrderRequest) bool { return false }
func (emptyRepo) DeleteOrder(_ context.Context, _, _, _, _ string) bool          { return false }
func (emptyRepo) GetInventory(context.Context) []models.InventoryItem            { return nil }

func TestGetOrdersByExhibitorConcurrentRequests(t *testing.T) {
	svc := service.NewOrderService(emptyRepo{}, cache.New(30*time.Second), nil, "Orders")
	handler := NewOrderHandler(svc, true, 30*time.Second)
	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	// Unprimed concurrent requests for the same exhibitor share one
	// cached result object; every response must still be well-formed
	// with a JSON array of orders.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/exhibitor/Acme", nil))
			if rec.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", rec.Code)
				return
			}
			var result models.ExhibitorOrders
			if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
				t.Errorf("invalid JSON: %v", err)
				return
			}
			if result.Orders == nil || len(result.Orders) != 0 {
				t.Errorf("expected empty orders array, body: %s", rec.Body.String())
			}
		}()
	}
	wg.Wait()
}

func TestSPAHandlerFallsBackToIndex(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatal(err)
	}

	spa := NewSPAHandler(dir)

	rec := httptest.NewRecorder()
	spa.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/main.js", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "console.log") {
		t.Fatalf("expected static file, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	spa.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/some/client/route", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "app") {
		t.Fatalf("expected index fallback, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSPAHandlerMissingBuild(t *testing.T) {
	spa := NewSPAHandler(filepath.Join(t.TempDir(), "missing"))

	rec := httptest.NewRecorder()
	spa.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when frontend is not built, got %d", rec.Code)
	}
}
