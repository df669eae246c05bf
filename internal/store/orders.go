package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ananev/boutique/internal/model"
)

// OrderFilters narrows ListOrders. Filters are conjunctive; empty fields are
// ignored.
type OrderFilters struct {
	Status   string
	Search   string // matches order number, customer name, or customer email
	Page     int
	PageSize int
}

// ListOrders returns orders joined with customer identity, newest first, plus
// the total match count.
func ListOrders(ctx context.Context, db *sql.DB, f OrderFilters) ([]model.Order, int, error) {
	conditions := []string{"1=1"}
	var args []any

	if f.Status != "" {
		conditions = append(conditions, "o.status = ?")
		args = append(args, f.Status)
	}
	if f.Search != "" {
		conditions = append(conditions,
			"(o.order_number LIKE ? OR c.first_name LIKE ? OR c.last_name LIKE ? OR c.email LIKE ?)")
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}

	where := strings.Join(conditions, " AND ")

	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders o
		 LEFT JOIN customers c ON c.id = o.customer_id
		 WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	page, pageSize := ClampPage(f.Page, f.PageSize)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.QueryContext(ctx,
		`SELECT o.id, o.order_number, o.customer_id, o.status, o.total_amount, o.created_at,
		        c.first_name || ' ' || c.last_name, c.email
		 FROM orders o
		 LEFT JOIN customers c ON c.id = o.customer_id
		 WHERE `+where+`
		 ORDER BY o.created_at DESC, o.id DESC
		 LIMIT ? OFFSET ?`, args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetOrder returns an order with its line items and product names.
func GetOrder(ctx context.Context, db *sql.DB, id int64) (*model.Order, error) {
	o := &model.Order{}
	var customerName, customerEmail sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT o.id, o.order_number, o.customer_id, o.status, o.total_amount, o.created_at,
		        c.first_name || ' ' || c.last_name, c.email
		 FROM orders o
		 LEFT JOIN customers c ON c.id = o.customer_id
		 WHERE o.id = ?`, id,
	).Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status, &o.TotalAmount, &o.CreatedAt,
		&customerName, &customerEmail)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}
	o.CustomerName = customerName.String
	o.CustomerEmail = customerEmail.String

	itemRows, err := db.QueryContext(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, p.name
		 FROM order_items oi
		 LEFT JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = ?
		 ORDER BY oi.id`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item model.OrderItem
		var productName sql.NullString
		if err := itemRows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.Quantity, &item.Price, &productName); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		item.ProductName = productName.String
		o.Items = append(o.Items, item)
	}
	return o, itemRows.Err()
}

// UpdateOrderStatus sets an order's status. The caller validates the status
// against the enum. Returns false when no row matches.
func UpdateOrderStatus(ctx context.Context, db *sql.DB, id int64, status string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return false, fmt.Errorf("updating order status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking updated rows: %w", err)
	}
	return n > 0, nil
}

// RecentOrders returns the latest n orders with customer names.
func RecentOrders(ctx context.Context, db *sql.DB, n int) ([]model.Order, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT o.id, o.order_number, o.customer_id, o.status, o.total_amount, o.created_at,
		        c.first_name || ' ' || c.last_name, c.email
		 FROM orders o
		 LEFT JOIN customers c ON c.id = o.customer_id
		 ORDER BY o.created_at DESC, o.id DESC
		 LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recent orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func scanOrders(rows *sql.Rows) ([]model.Order, error) {
	var orders []model.Order
	for rows.Next() {
		var o model.Order
		var customerName, customerEmail sql.NullString
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status,
			&o.TotalAmount, &o.CreatedAt, &customerName, &customerEmail); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		o.CustomerName = customerName.String
		o.CustomerEmail = customerEmail.String
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
