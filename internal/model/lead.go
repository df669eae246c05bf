package model

import "time"

// Lead is a customer inquiry about a product, created by public submission
// and worked through a small status lifecycle by an admin.
type Lead struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	ProductName  string    `json:"product_name,omitempty"`
	CustomerName string    `json:"customer_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Lead statuses.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusArchived  = "archived"
)

// ValidLeadStatus reports whether s is one of the known lead statuses.
func ValidLeadStatus(s string) bool {
	return s == LeadStatusNew || s == LeadStatusContacted || s == LeadStatusArchived
}
