package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a storefront buyer. OrderCount and TotalSpent are aggregates
// filled only by the list query.
type Customer struct {
	ID         int64           `json:"id"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone,omitempty"`
	IsActive   bool            `json:"is_active"`
	OrderCount int64           `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	Orders     []Order         `json:"orders,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
