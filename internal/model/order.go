package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a read-mostly record: orders are created by the storefront, the
// admin backend only lists them and advances their status.
type Order struct {
	ID            int64           `json:"id"`
	OrderNumber   string          `json:"order_number"`
	CustomerID    int64           `json:"customer_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Items         []OrderItem     `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderItem is a line on an order.
type OrderItem struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
