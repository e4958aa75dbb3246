package models

// InventoryItem mirrors one row of the "Show Inventory" worksheet,
// which has its own header convention and a lifecycle independent from
// orders.
type InventoryItem struct {
	Item                 string `json:"item"`
	LoadList             string `json:"load_list"`
	PullList             string `json:"pull_list"`
	StartingQuantity     int    `json:"starting_quantity"`
	OrderedItems         int    `json:"ordered_items"`
	DamagedItems         int    `json:"damaged_items"`
	AvailableQuantity    int    `json:"available_quantity"`
	RequestedToWarehouse string `json:"requested_to_warehouse"`
	RequestedDateTime    string `json:"requested_date_time"`
}
