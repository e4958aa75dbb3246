package models

// Exhibitor is derived by grouping orders by exhibitor name; it is not
// persisted independently. Booth is the booth number of the first order
// seen for the exhibitor.
type Exhibitor struct {
	Name            string `json:"name"`
	Booth           string `json:"booth"`
	TotalOrders     int    `json:"total_orders"`
	DeliveredOrders int    `json:"delivered_orders"`
}
