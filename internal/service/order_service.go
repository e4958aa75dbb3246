package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/expocc/showdesk/internal/cache"
	"github.com/expocc/showdesk/internal/messaging"
	"github.com/expocc/showdesk/internal/models"
	"github.com/expocc/showdesk/internal/repository"
)

const (
	cacheKeyOrders     = "orders"
	cacheKeyExhibitors = "exhibitors"
	cacheKeyInventory  = "inventory"
	cacheKeyWorksheets = "worksheets"
	cacheKeyExhibitor  = "exhibitor:"
)

// OrderService mediates between the HTTP handlers and the sheet
// repository. Reads go through the cache unless forceRefresh is set;
// successful mutations clear the cache so the next read refetches.
type OrderService interface {
	GetAllOrders(ctx context.Context, forceRefresh bool) []models.Order
	GetAllExhibitors(ctx context.Context, forceRefresh bool) []models.Exhibitor
	GetOrdersForExhibitor(ctx context.Context, name string, forceRefresh bool) *models.ExhibitorOrders
	GetOrdersForBooth(ctx context.Context, booth string, forceRefresh bool) []models.Order
	GetInventory(ctx context.Context, forceRefresh bool) []models.InventoryItem
	ListWorksheets(ctx context.Context, forceRefresh bool) []string
	AddOrder(ctx context.Context, req *models.AddOrderRequest) bool
	UpdateOrderStatus(ctx context.Context, req *models.UpdateOrderStatusRequest) bool
	DeleteOrder(ctx context.Context, req *models.DeleteOrderRequest) bool
	ClearCache()
	CacheSize() int
}

type orderService struct {
	repo             repository.OrderRepository
	cache            *cache.Cache
	producer         messaging.Producer
	primaryWorksheet string
}

// NewOrderService wires the repository to the cache. The producer may
// be nil, in which case events are not published.
func NewOrderService(repo repository.OrderRepository, c *cache.Cache, producer messaging.Producer, primaryWorksheet string) OrderService {
	return &orderService{
		repo:             repo,
		cache:            c,
		producer:         producer,
		primaryWorksheet: primaryWorksheet,
	}
}

func (s *orderService) GetAllOrders(ctx context.Context, forceRefresh bool) []models.Order {
	if v, ok := s.cache.Get(cacheKeyOrders, !forceRefresh); ok {
		if orders, ok := v.([]models.Order); ok {
			return orders
		}
	}

	orders := s.repo.GetAllOrders(ctx)
	s.cache.Set(cacheKeyOrders, orders)
	return orders
}

func (s *orderService) GetAllExhibitors(ctx context.Context, forceRefresh bool) []models.Exhibitor {
	if v, ok := s.cache.Get(cacheKeyExhibitors, !forceRefresh); ok {
		if exhibitors, ok := v.([]models.Exhibitor); ok {
			return exhibitors
		}
	}

	exhibitors := s.repo.GetAllExhibitors(ctx)
	s.cache.Set(cacheKeyExhibitors, exhibitors)
	return exhibitors
}

func (s *orderService) GetOrdersForExhibitor(ctx context.Context, name string, forceRefresh bool) *models.ExhibitorOrders {
	key := cacheKeyExhibitor + strings.ToLower(name)
	if v, ok := s.cache.Get(key, !forceRefresh); ok {
		if result, ok := v.(*models.ExhibitorOrders); ok {
			return result
		}
	}

	orders := s.repo.GetOrdersForExhibitor(ctx, name)
	if orders == nil {
		// The result is cached and shared across requests; normalize
		// here so callers never need to mutate it.
		orders = []models.Order{}
	}
	delivered := 0
	for _, order := range orders {
		if order.Status == models.StatusDelivered {
			delivered++
		}
	}

	result := &models.ExhibitorOrders{
		Exhibitor:       name,
		Orders:          orders,
		TotalOrders:     len(orders),
		DeliveredOrders: delivered,
		LastUpdated:     time.Now(),
	}
	s.cache.Set(key, result)
	return result
}

func (s *orderService) GetOrdersForBooth(ctx context.Context, booth string, forceRefresh bool) []models.Order {
	booth = strings.TrimSpace(booth)

	var matched []models.Order
	for _, order := range s.GetAllOrders(ctx, forceRefresh) {
		if order.BoothNumber == booth {
			matched = append(matched, order)
		}
	}
	return matched
}

func (s *orderService) GetInventory(ctx context.Context, forceRefresh bool) []models.InventoryItem {
	if v, ok := s.cache.Get(cacheKeyInventory, !forceRefresh); ok {
		if items, ok := v.([]models.InventoryItem); ok {
			return items
		}
	}

	items := s.repo.GetInventory(ctx)
	s.cache.Set(cacheKeyInventory, items)
	return items
}

func (s *orderService) ListWorksheets(ctx context.Context, forceRefresh bool) []string {
	if v, ok := s.cache.Get(cacheKeyWorksheets, !forceRefresh); ok {
		if names, ok := v.([]string); ok {
			return names
		}
	}

	names := s.repo.ListWorksheets(ctx)
	s.cache.Set(cacheKeyWorksheets, names)
	return names
}

func (s *orderService) AddOrder(ctx context.Context, req *models.AddOrderRequest) bool {
	worksheet := s.primaryWorksheet
	if req.Section != "" && strings.HasPrefix(req.Section, repository.SectionPrefix) {
		worksheet = req.Section
	}

	if !s.repo.AddOrder(ctx, worksheet, req) {
		return false
	}

	s.cache.Clear()
	s.publish(ctx, &models.OrderEvent{
		Type:          "order.created",
		BoothNumber:   req.BoothNumber,
		ExhibitorName: req.ExhibitorName,
		Item:          req.Item,
		Color:         req.Color,
		Worksheet:     worksheet,
		User:          req.User,
		Timestamp:     time.Now(),
	})
	return true
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, req *models.UpdateOrderStatusRequest) bool {
	worksheet := req.Worksheet
	if worksheet == "" {
		worksheet = s.primaryWorksheet
	}

	if !s.repo.UpdateOrderStatus(ctx, worksheet, req.BoothNumber, req.Item, req.Color, req.Status, req.User) {
		return false
	}

	s.cache.Clear()
	s.publish(ctx, &models.OrderEvent{
		Type:        "order.status_updated",
		BoothNumber: req.BoothNumber,
		Item:        req.Item,
		Color:       req.Color,
		Status:      req.Status,
		Worksheet:   worksheet,
		User:        req.User,
		Timestamp:   time.Now(),
	})
	return true
}

func (s *orderService) DeleteOrder(ctx context.Context, req *models.DeleteOrderRequest) bool {
	if !s.repo.DeleteOrder(ctx, req.BoothNumber, req.Item, req.Color, req.Section) {
		return false
	}

	s.cache.Clear()
	s.publish(ctx, &models.OrderEvent{
		Type:        "order.deleted",
		BoothNumber: req.BoothNumber,
		Item:        req.Item,
		Color:       req.Color,
		Timestamp:   time.Now(),
	})
	return true
}

func (s *orderService) ClearCache() {
	s.cache.Clear()
	log.Println("Cache cleared manually")
}

func (s *orderService) CacheSize() int {
	return s.cache.Len()
}

// publish sends an order event when a producer is configured. Publish
// failures are logged and never surfaced to the caller.
func (s *orderService) publish(ctx context.Context, event *models.OrderEvent) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishOrderEvent(ctx, event); err != nil {
		log.Printf("Failed to publish %s event: %v", event.Type, err)
	}
}
