package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog product. Rows are never physically deleted; IsActive
// false marks a soft-deleted product that stays addressable by ID.
type Product struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Stock         int64            `json:"stock"`
	ProductType   string           `json:"product_type,omitempty"`
	Details       any              `json:"details,omitempty"`
	SubcategoryID *int64           `json:"subcategory_id,omitempty"`
	Subcategory   string           `json:"subcategory_name,omitempty"`
	Category      string           `json:"category_name,omitempty"`
	Contact       string           `json:"contact,omitempty"`
	RentAvailable bool             `json:"rent_available"`
	IsActive      bool             `json:"is_active"`
	PrimaryImage  string           `json:"primary_image,omitempty"`
	Images        []ProductImage   `json:"images,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ProductImage is one stored image of a product. The bytes live in the
// database; URL is the reference handed to clients (CDN URL when the remote
// upload succeeded, otherwise the local image endpoint).
type ProductImage struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}
