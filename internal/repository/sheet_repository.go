package repository

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/expocc/showdesk/internal/models"
	"github.com/expocc/showdesk/internal/sheets"
)

const (
	// SectionPrefix marks worksheets holding additional orders that are
	// unioned with the primary worksheet.
	SectionPrefix      = "Section"
	inventoryWorksheet = "Show Inventory"
)

// OrderRepository reads and mutates records stored in the spreadsheet.
//
// Failure policy: transport and parsing errors are logged and degrade
// to an empty result or a false success flag instead of propagating.
// Callers cannot distinguish "empty" from "unreachable"; this is a
// documented limitation of the availability-over-correctness tradeoff
// this service makes. Mutations re-read the full table on every call
// with no optimistic-concurrency token, so concurrent writers against
// the same row can race.
type OrderRepository interface {
	FetchTable(ctx context.Context, worksheet string) [][]string
	ListWorksheets(ctx context.Context) []string
	GetAllOrders(ctx context.Context) []models.Order
	GetAllExhibitors(ctx context.Context) []models.Exhibitor
	GetOrdersForExhibitor(ctx context.Context, name string) []models.Order
	UpdateOrderStatus(ctx context.Context, worksheet, booth, item, color, status, user string) bool
	AddOrder(ctx context.Context, worksheet string, req *models.AddOrderRequest) bool
	DeleteOrder(ctx context.Context, booth, item, color, section string) bool
	GetInventory(ctx context.Context) []models.InventoryItem
}

type sheetRepository struct {
	client  sheets.Client
	primary string
}

// NewSheetRepository wraps a sheets client. A nil client is allowed and
// yields empty results everywhere, mirroring a service that starts
// without valid credentials.
func NewSheetRepository(client sheets.Client, primaryWorksheet string) OrderRepository {
	return &sheetRepository{client: client, primary: primaryWorksheet}
}

func (r *sheetRepository) FetchTable(ctx context.Context, worksheet string) [][]string {
	if r.client == nil {
		log.Println("Sheets client not initialized")
		return nil
	}

	rows, err := r.client.GetValues(ctx, worksheet)
	if err != nil {
		log.Printf("Error getting data from worksheet %s: %v", worksheet, err)
		return nil
	}
	return rows
}

func (r *sheetRepository) ListWorksheets(ctx context.Context) []string {
	if r.client == nil {
		return nil
	}

	names, err := r.client.ListWorksheets(ctx)
	if err != nil {
		log.Printf("Error listing worksheets: %v", err)
		return nil
	}
	return names
}

func (r *sheetRepository) GetAllOrders(ctx context.Context) []models.Order {
	orders := ParseOrders(r.FetchTable(ctx, r.primary))

	for _, name := range r.ListWorksheets(ctx) {
		if !strings.HasPrefix(name, SectionPrefix) {
			continue
		}
		sectionOrders := ParseOrders(r.FetchTable(ctx, name))
		orders = append(orders, sectionOrders...)
	}
	return orders
}

func (r *sheetRepository) GetAllExhibitors(ctx context.Context) []models.Exhibitor {
	orders := r.GetAllOrders(ctx)

	index := make(map[string]int)
	var exhibitors []models.Exhibitor
	for _, order := range orders {
		i, ok := index[order.ExhibitorName]
		if !ok {
			i = len(exhibitors)
			index[order.ExhibitorName] = i
			exhibitors = append(exhibitors, models.Exhibitor{
				Name:  order.ExhibitorName,
				Booth: order.BoothNumber,
			})
		}
		exhibitors[i].TotalOrders++
		if order.Status == models.StatusDelivered {
			exhibitors[i].DeliveredOrders++
		}
	}
	return exhibitors
}

func (r *sheetRepository) GetOrdersForExhibitor(ctx context.Context, name string) []models.Order {
	var matched []models.Order
	for _, order := range r.GetAllOrders(ctx) {
		if strings.EqualFold(order.ExhibitorName, name) {
			matched = append(matched, order)
		}
	}
	return matched
}

func (r *sheetRepository) UpdateOrderStatus(ctx context.Context, worksheet, booth, item, color, status, user string) bool {
	if r.client == nil {
		return false
	}

	rows, err := r.client.GetValues(ctx, worksheet)
	if err != nil {
		log.Printf("Error updating order status: %v", err)
		return false
	}
	if len(rows) < 2 {
		return false
	}

	cols := headerIndex(rows[0])
	statusCol, ok := cols["Status"]
	if !ok {
		log.Printf("Status column not found in worksheet %s", worksheet)
		return false
	}
	userCol, hasUser := cols["User"]

	match, sheetRow := findOrderRow(rows, cols, booth, item, color)
	if !match {
		log.Printf("Order not found: booth %s, item %s, color %s", booth, item, color)
		return false
	}

	if err := r.client.UpdateCell(ctx, worksheet, sheetRow, statusCol+1, status); err != nil {
		log.Printf("Error updating order status: %v", err)
		return false
	}
	if hasUser {
		if err := r.client.UpdateCell(ctx, worksheet, sheetRow, userCol+1, user); err != nil {
			log.Printf("Error updating order user: %v", err)
			return false
		}
	}

	log.Printf("Updated status for booth %s, item %s to %s", booth, item, status)
	return true
}

func (r *sheetRepository) AddOrder(ctx context.Context, worksheet string, req *models.AddOrderRequest) bool {
	if r.client == nil {
		return false
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	status := req.Status
	if status == "" {
		status = "In Process"
	}
	orderType := req.Type
	if orderType == "" {
		orderType = "New Order"
	}

	// The Date and Hour columns are stamped server-side regardless of
	// caller input.
	now := time.Now()
	row := []interface{}{
		req.BoothNumber,
		req.Section,
		req.ExhibitorName,
		req.Item,
		req.Color,
		quantity,
		now.Format("01/02/2006"),
		now.Format("03:04:05 PM"),
		status,
		orderType,
		req.BoomersQuantity,
		req.Comments,
		req.User,
	}

	if err := r.client.AppendRow(ctx, worksheet, row); err != nil {
		log.Printf("Error adding order: %v", err)
		return false
	}

	log.Printf("Added order for booth %s", req.BoothNumber)
	return true
}

func (r *sheetRepository) DeleteOrder(ctx context.Context, booth, item, color, section string) bool {
	if r.client == nil {
		return false
	}

	// Try the section worksheet first when given, then the primary.
	worksheets := []string{r.primary}
	if section != "" {
		worksheets = append([]string{section}, worksheets...)
	}

	for _, worksheet := range worksheets {
		rows, err := r.client.GetValues(ctx, worksheet)
		if err != nil {
			log.Printf("Could not access worksheet %s: %v", worksheet, err)
			continue
		}
		if len(rows) < 2 {
			continue
		}

		cols := headerIndex(rows[0])
		match, sheetRow := findOrderRow(rows, cols, booth, item, color)
		if !match {
			continue
		}

		if err := r.client.DeleteRow(ctx, worksheet, sheetRow); err != nil {
			log.Printf("Error deleting row from %s: %v", worksheet, err)
			continue
		}

		log.Printf("Deleted order from %s: booth %s, item %s", worksheet, booth, item)
		return true
	}

	log.Printf("Order not found for deletion: booth %s, item %s", booth, item)
	return false
}

func (r *sheetRepository) GetInventory(ctx context.Context) []models.InventoryItem {
	rows := r.FetchTable(ctx, inventoryWorksheet)
	if len(rows) < 2 {
		return nil
	}

	cols := headerIndex(rows[0])
	var items []models.InventoryItem
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		items = append(items, models.InventoryItem{
			Item:                 cell(row, cols, "Items"),
			LoadList:             cell(row, cols, "Load List"),
			PullList:             cell(row, cols, "Pull List"),
			StartingQuantity:     safeInt(cell(row, cols, "Starting Quantity"), 0),
			OrderedItems:         safeInt(cell(row, cols, "Ordered items"), 0),
			DamagedItems:         safeInt(cell(row, cols, "Damaged Items"), 0),
			AvailableQuantity:    safeInt(cell(row, cols, "Available Quantity"), 0),
			RequestedToWarehouse: cell(row, cols, "Requested to the Warehouse"),
			RequestedDateTime:    cell(row, cols, "Requested Date and Time"),
		})
	}
	return items
}

// ParseOrders converts a raw worksheet grid into orders. The first row
// is the header; blank rows and rows missing a booth number or
// exhibitor name are skipped. The record ID is synthesized from the
// order date, booth number, and 0-based data-row position.
func ParseOrders(rows [][]string) []models.Order {
	if len(rows) < 2 {
		return nil
	}

	cols := headerIndex(rows[0])
	var orders []models.Order
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}

		booth := cell(row, cols, "Booth #")
		exhibitor := cell(row, cols, "Exhibitor Name")
		if booth == "" || exhibitor == "" {
			continue
		}

		item := cell(row, cols, "Item")
		date := cell(row, cols, "Date")

		orders = append(orders, models.Order{
			ID:              fmt.Sprintf("ORD-%s-%s-%d", strings.ReplaceAll(date, "/", "-"), booth, i),
			BoothNumber:     booth,
			ExhibitorName:   exhibitor,
			Item:            item,
			Description:     "Order: " + item,
			Color:           cell(row, cols, "Color"),
			Quantity:        safeInt(cell(row, cols, "Quantity"), 1),
			Status:          MapStatus(cell(row, cols, "Status")),
			OrderDate:       date,
			Comments:        cell(row, cols, "Comments"),
			Section:         cell(row, cols, "Section"),
			Type:            cell(row, cols, "Type"),
			User:            cell(row, cols, "User"),
			Hour:            cell(row, cols, "Hour"),
			BoomersQuantity: safeInt(cell(row, cols, "Boomer's Quantity"), 0),
		})
	}
	return orders
}

// MapStatus maps a free-text worksheet status onto the front-end
// vocabulary. Unrecognized or blank values default to in-process.
func MapStatus(sheetStatus string) string {
	switch sheetStatus {
	case "Delivered", "Received":
		return models.StatusDelivered
	case "Out for delivery":
		return models.StatusOutForDelivery
	case "In route from warehouse":
		return models.StatusInRoute
	case "In Process":
		return models.StatusInProcess
	case "cancelled", "Cancelled":
		return models.StatusCancelled
	case "New":
		return models.StatusInProcess
	default:
		return models.StatusInProcess
	}
}

// findOrderRow locates the first data row matching (booth, item, color)
// by named-column comparison. It returns the 1-based sheet row of the
// match. All three identity columns must exist in the header.
func findOrderRow(rows [][]string, cols map[string]int, booth, item, color string) (bool, int) {
	for _, name := range []string{"Booth #", "Item", "Color"} {
		if _, ok := cols[name]; !ok {
			log.Printf("%s column not found", name)
			return false, 0
		}
	}

	booth = strings.TrimSpace(booth)
	item = strings.TrimSpace(item)
	color = strings.TrimSpace(color)

	for i, row := range rows[1:] {
		if cell(row, cols, "Booth #") == booth &&
			cell(row, cols, "Item") == item &&
			cell(row, cols, "Color") == color {
			return true, i + 2
		}
	}
	return false, 0
}

// headerIndex maps trimmed header names to their column positions.
// Resolving columns by name once per read guards against header
// reordering.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := cols[name]; !ok {
			cols[name] = i
		}
	}
	return cols
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// safeInt coerces a spreadsheet cell to an integer, accepting float
// formatting ("2.0") and falling back to def on anything unparseable.
func safeInt(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return int(f)
}
