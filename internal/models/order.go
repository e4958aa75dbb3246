package models

import (
	"errors"
	"time"
)

// Order statuses as exposed to the front-end. The spreadsheet itself
// holds free-text statuses that are mapped onto these values.
const (
	StatusInProcess      = "in-process"
	StatusOutForDelivery = "out-for-delivery"
	StatusInRoute        = "in-route"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

type Order struct {
	ID              string `json:"id"`
	BoothNumber     string `json:"booth_number"`
	ExhibitorName   string `json:"exhibitor_name"`
	Item            string `json:"item"`
	Description     string `json:"description"`
	Color           string `json:"color"`
	Quantity        int    `json:"quantity"`
	Status          string `json:"status"`
	OrderDate       string `json:"order_date"`
	Comments        string `json:"comments"`
	Section         string `json:"section"`
	Type            string `json:"type"`
	User            string `json:"user"`
	Hour            string `json:"hour"`
	BoomersQuantity int    `json:"boomers_quantity"`
}

type AddOrderRequest struct {
	BoothNumber   string `json:"booth_number"`
	Section       string `json:"section"`
	ExhibitorName string `json:"exhibitor_name"`
	Item          string `json:"item"`
	Color         string `json:"color"`
	// Quantity defaults to 1 only when the field is omitted; an
	// explicit 0 is preserved.
	Quantity        *int   `json:"quantity"`
	Status          string `json:"status"`
	Type            string `json:"type"`
	BoomersQuantity int    `json:"boomers_quantity"`
	Comments        string `json:"comments"`
	User            string `json:"user"`
}

type UpdateOrderStatusRequest struct {
	Worksheet   string `json:"worksheet"`
	BoothNumber string `json:"booth_number"`
	Item        string `json:"item"`
	Color       string `json:"color"`
	Status      string `json:"status"`
	User        string `json:"user"`
}

type DeleteOrderRequest struct {
	BoothNumber string `json:"booth_number"`
	Item        string `json:"item"`
	Color       string `json:"color"`
	Section     string `json:"section"`
}

// ExhibitorOrders is the wrapped per-exhibitor response shape.
type ExhibitorOrders struct {
	Exhibitor       string    `json:"exhibitor"`
	Orders          []Order   `json:"orders"`
	TotalOrders     int       `json:"total_orders"`
	DeliveredOrders int       `json:"delivered_orders"`
	LastUpdated     time.Time `json:"last_updated"`
}

type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id,omitempty"`
	BoothNumber   string    `json:"booth_number"`
	ExhibitorName string    `json:"exhibitor_name,omitempty"`
	Item          string    `json:"item"`
	Color         string    `json:"color,omitempty"`
	Status        string    `json:"status,omitempty"`
	Worksheet     string    `json:"worksheet,omitempty"`
	User          string    `json:"user,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func (r *AddOrderRequest) Validate() error {
	if r.BoothNumber == "" {
		return errors.New("booth_number is required")
	}
	if r.ExhibitorName == "" {
		return errors.New("exhibitor_name is required")
	}
	if r.Item == "" {
		return errors.New("item is required")
	}
	if r.Quantity != nil && *r.Quantity < 0 {
		return errors.New("quantity cannot be negative")
	}
	return nil
}

func (r *UpdateOrderStatusRequest) Validate() error {
	if r.BoothNumber == "" {
		return errors.New("booth_number is required")
	}
	if r.Item == "" {
		return errors.New("item is required")
	}
	if r.Status == "" {
		return errors.New("status is required")
	}
	return nil
}

func (r *DeleteOrderRequest) Validate() error {
	if r.BoothNumber == "" {
		return errors.New("booth_number is required")
	}
	if r.Item == "" {
		return errors.New("item is required")
	}
	return nil
}
