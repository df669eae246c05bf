package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ananev/boutique/internal/model"
)

// Pagination bounds. Invalid or missing values resolve to the defaults;
// PageSize is capped so a single request cannot drag the whole table.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ProductFilters narrows ListProducts. Filters are conjunctive; empty fields
// are ignored.
type ProductFilters struct {
	Search      string // substring match on name or description
	Category    string // exact category name, through the subcategory join
	Subcategory string // exact subcategory name
	Page        int
	PageSize    int
}

// ClampPage resolves out-of-range pagination to the defaults: page floors at
// 1, pageSize defaults to DefaultPageSize and caps at MaxPageSize.
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// representativeImageSubquery picks the single image shown in list views:
// primary flag first, then lowest sort order, id as the final tiebreaker.
const representativeImageSubquery = `(
	SELECT id FROM product_images
	WHERE product_id = p.id
	ORDER BY is_primary DESC, sort_order ASC, id ASC LIMIT 1)`

// ListProducts returns active products matching the filters, newest first,
// plus the total match count for pagination. Every filter value, including
// LIMIT and OFFSET, is a bound parameter.
func ListProducts(ctx context.Context, db *sql.DB, f ProductFilters) ([]model.Product, int, error) {
	conditions := []string{"p.is_active = 1"}
	var args []any

	if f.Category != "" {
		conditions = append(conditions, "c.name = ?")
		args = append(args, f.Category)
	}
	if f.Subcategory != "" {
		conditions = append(conditions, "s.name = ?")
		args = append(args, f.Subcategory)
	}
	if f.Search != "" {
		conditions = append(conditions, "(p.name LIKE ? OR p.description LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}

	where := strings.Join(conditions, " AND ")

	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products p
		 LEFT JOIN subcategories s ON s.id = p.subcategory_id
		 LEFT JOIN categories c ON c.id = s.category_id
		 WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	page, pageSize := ClampPage(f.Page, f.PageSize)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.QueryContext(ctx,
		`SELECT p.id, p.name, p.description, p.price, p.original_price, p.stock,
		        p.product_type, p.subcategory_id, p.contact, p.rent_available,
		        p.is_active, p.created_at, p.updated_at,
		        s.name, c.name, pi.id, pi.cdn_url
		 FROM products p
		 LEFT JOIN subcategories s ON s.id = p.subcategory_id
		 LEFT JOIN categories c ON c.id = s.category_id
		 LEFT JOIN product_images pi ON pi.id = `+representativeImageSubquery+`
		 WHERE `+where+`
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT ? OFFSET ?`, args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		var description, productType, contact, subName, catName, cdnURL sql.NullString
		var originalPrice sql.NullString
		var subID, imageID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &description, &p.Price, &originalPrice, &p.Stock,
			&productType, &subID, &contact, &p.RentAvailable,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
			&subName, &catName, &imageID, &cdnURL); err != nil {
			return nil, 0, fmt.Errorf("scanning product: %w", err)
		}
		p.Description = description.String
		p.ProductType = productType.String
		p.Contact = contact.String
		p.Subcategory = subName.String
		p.Category = catName.String
		if subID.Valid {
			p.SubcategoryID = &subID.Int64
		}
		if originalPrice.Valid {
			d, err := decimal.NewFromString(originalPrice.String)
			if err == nil {
				p.OriginalPrice = &d
			}
		}
		if imageID.Valid {
			p.PrimaryImage = ImageRef(p.ID, imageID.Int64, cdnURL.String)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

// GetProduct returns a product by ID with its full image list, regardless of
// the active flag. Callers decide whether inactive rows are visible. Returns
// nil when no row matches.
func GetProduct(ctx context.Context, db *sql.DB, id int64) (*model.Product, error) {
	p := &model.Product{}
	var description, productType, contact, details, subName, catName sql.NullString
	var originalPrice sql.NullString
	var subID sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT p.id, p.name, p.description, p.price, p.original_price, p.stock,
		        p.product_type, p.details, p.subcategory_id, p.contact,
		        p.rent_available, p.is_active, p.created_at, p.updated_at,
		        s.name, c.name
		 FROM products p
		 LEFT JOIN subcategories s ON s.id = p.subcategory_id
		 LEFT JOIN categories c ON c.id = s.category_id
		 WHERE p.id = ?`, id,
	).Scan(&p.ID, &p.Name, &description, &p.Price, &originalPrice, &p.Stock,
		&productType, &details, &subID, &contact,
		&p.RentAvailable, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&subName, &catName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	p.Description = description.String
	p.ProductType = productType.String
	p.Contact = contact.String
	p.Subcategory = subName.String
	p.Category = catName.String
	if subID.Valid {
		p.SubcategoryID = &subID.Int64
	}
	if originalPrice.Valid {
		d, err := decimal.NewFromString(originalPrice.String)
		if err == nil {
			p.OriginalPrice = &d
		}
	}
	p.Details = parseDetails(p.ID, details)

	images, err := ListProductImages(ctx, db, p.ID)
	if err != nil {
		return nil, err
	}
	p.Images = images
	if len(images) > 0 {
		p.PrimaryImage = images[0].URL
	}
	return p, nil
}

// parseDetails deserializes the stored details document. Legacy rows may hold
// text that was never valid JSON; those degrade to the raw string with a
// warning instead of failing the read.
func parseDetails(productID int64, details sql.NullString) any {
	if !details.Valid || details.String == "" {
		return nil
	}
	var parsed any
	if err := json.Unmarshal([]byte(details.String), &parsed); err != nil {
		slog.Warn("product details is not valid JSON, keeping raw value",
			"product_id", productID, "error", err)
		return details.String
	}
	return parsed
}

// NewProduct holds the fields for product creation. Details is the serialized
// JSON document as submitted (stored verbatim).
type NewProduct struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Stock         int64
	ProductType   string
	Details       string
	SubcategoryID *int64
	Contact       string
	RentAvailable bool
}

// CreateProduct inserts a product row and returns it.
func CreateProduct(ctx context.Context, db *sql.DB, np NewProduct) (*model.Product, error) {
	var originalPrice any
	if np.OriginalPrice != nil {
		originalPrice = np.OriginalPrice.String()
	}
	result, err := db.ExecContext(ctx,
		`INSERT INTO products (name, description, price, original_price, stock,
		                       product_type, details, subcategory_id, contact, rent_available)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		np.Name, nullable(np.Description), np.Price.String(), originalPrice, np.Stock,
		nullable(np.ProductType), nullable(np.Details), np.SubcategoryID,
		nullable(np.Contact), np.RentAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting product id: %w", err)
	}

	return GetProduct(ctx, db, id)
}

// ProductUpdate carries a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	OriginalPrice *decimal.Decimal
	Stock         *int64
	ProductType   *string
	Details       *string
	SubcategoryID *int64
	Contact       *string
	RentAvailable *bool
}

// UpdateProduct applies a partial update and returns the updated product, or
// nil when no row matches.
func UpdateProduct(ctx context.Context, db *sql.DB, id int64, up ProductUpdate) (*model.Product, error) {
	existing, err := GetProduct(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if up.Name != nil {
		set("name", *up.Name)
	}
	if up.Description != nil {
		set("description", *up.Description)
	}
	if up.Price != nil {
		set("price", up.Price.String())
	}
	if up.OriginalPrice != nil {
		set("original_price", up.OriginalPrice.String())
	}
	if up.Stock != nil {
		set("stock", *up.Stock)
	}
	if up.ProductType != nil {
		set("product_type", *up.ProductType)
	}
	if up.Details != nil {
		set("details", *up.Details)
	}
	if up.SubcategoryID != nil {
		set("subcategory_id", *up.SubcategoryID)
	}
	if up.Contact != nil {
		set("contact", *up.Contact)
	}
	if up.RentAvailable != nil {
		set("rent_available", *up.RentAvailable)
	}

	args = append(args, id)
	_, err = db.ExecContext(ctx,
		`UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}

	return GetProduct(ctx, db, id)
}

// DeleteProduct soft-deletes a product by clearing its active flag. Returns
// false when the row does not exist or is already inactive, so repeated
// deletes are harmless no-ops.
func DeleteProduct(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE products SET is_active = 0, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_active = 1`, id,
	)
	if err != nil {
		return false, fmt.Errorf("deleting product: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deleted rows: %w", err)
	}
	return n > 0, nil
}

// nullable maps "" to NULL so optional text columns stay NULL instead of
// accumulating empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
