package models

import "time"

type OrderStatus string

const (
	OrderStatusOngoing   OrderStatus = "ongoing"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// OrderItem is an immutable snapshot of a cart row taken at checkout.
// UnitPrice is captured at order time; later catalog changes never touch it.
type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Image       string  `json:"image"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	Size        Size    `json:"size,omitempty"`
	Cooked      bool    `json:"cooked"`
}

type Courier struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type Order struct {
	ID          string      `json:"id"` // human-readable order number
	Items       []OrderItem `json:"items"`
	Total       float64     `json:"total"` // subtotal + delivery fee
	DeliveryFee float64     `json:"deliveryFee"`
	Status      OrderStatus `json:"status"`
	Date        time.Time   `json:"date"`
	Address     string      `json:"address"` // delivery address snapshot
	Courier     *Courier    `json:"courier,omitempty"`
}
