package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              int64       `json:"id"`
	Reference       string      `json:"reference"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	Total           int64       `json:"total"`
	Status          OrderStatus `json:"status"`
	StoreID         *int64      `json:"store_id,omitempty"`
	DeliveryAddress string      `json:"delivery_address,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	Items           []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"order_id"`
	ProductID   int64  `json:"product_id"`
	VariantID   int64  `json:"variant_id"`
	Qty         int    `json:"qty"`
	Price       int64  `json:"price"`
	Name        string `json:"name,omitempty"`
	VariantName string `json:"variant_name,omitempty"`
}

// CartItem is one line of a shopping cart, kept in session state until
// checkout turns it into an OrderItem.
type CartItem struct {
	ProductID   int64  `json:"product_id"`
	VariantID   int64  `json:"variant_id"`
	SKU         string `json:"sku,omitempty"`
	Name        string `json:"name"`
	VariantName string `json:"variant_name"`
	Price       int64  `json:"price"`
	Qty         int    `json:"qty"`
}

// Subtotal is the line total for the cart item.
func (c CartItem) Subtotal() int64 {
	return c.Price * int64(c.Qty)
}
