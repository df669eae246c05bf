package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ananev/boutique/internal/model"
)

// orderAggregate is one customer's non-cancelled order count and spend.
type orderAggregate struct {
	count int64
	total decimal.Decimal
}

// orderAggregates sums each customer's non-cancelled orders. The summing
// happens in Go because SQLite's SUM pushes the TEXT amounts through float
// arithmetic, which can lose cents on large totals.
func orderAggregates(ctx context.Context, db *sql.DB) (map[int64]orderAggregate, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT customer_id, total_amount FROM orders WHERE status != 'cancelled'`,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregating orders: %w", err)
	}
	defer rows.Close()

	aggs := map[int64]orderAggregate{}
	for rows.Next() {
		var customerID int64
		var amount decimal.Decimal
		if err := rows.Scan(&customerID, &amount); err != nil {
			return nil, fmt.Errorf("scanning order amount: %w", err)
		}
		agg := aggs[customerID]
		agg.count++
		agg.total = agg.total.Add(amount)
		aggs[customerID] = agg
	}
	return aggs, rows.Err()
}

// ListCustomers returns active customers with order aggregates (cancelled
// orders excluded from both count and total), newest first, plus the total
// match count. Search matches name or email.
func ListCustomers(ctx context.Context, db *sql.DB, search string, page, pageSize int) ([]model.Customer, int, error) {
	where := "is_active = 1"
	var args []any
	if search != "" {
		where += " AND (first_name LIKE ? OR last_name LIKE ? OR email LIKE ?)"
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting customers: %w", err)
	}

	page, pageSize = ClampPage(page, pageSize)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, phone, is_active, created_at
		 FROM customers
		 WHERE `+where+`
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`, args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		var phone sql.NullString
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &phone,
			&c.IsActive, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning customer: %w", err)
		}
		c.Phone = phone.String
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(customers) > 0 {
		aggs, err := orderAggregates(ctx, db)
		if err != nil {
			return nil, 0, err
		}
		for i := range customers {
			agg := aggs[customers[i].ID]
			customers[i].OrderCount = agg.count
			customers[i].TotalSpent = agg.total
		}
	}
	return customers, total, nil
}

// GetCustomer returns an active customer with their order history. Returns
// nil for unknown or deactivated customers.
func GetCustomer(ctx context.Context, db *sql.DB, id int64) (*model.Customer, error) {
	c := &model.Customer{}
	var phone sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, phone, is_active, created_at
		 FROM customers WHERE id = ? AND is_active = 1`, id,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &phone, &c.IsActive, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting customer: %w", err)
	}
	c.Phone = phone.String

	rows, err := db.QueryContext(ctx,
		`SELECT o.id, o.order_number, o.customer_id, o.status, o.total_amount, o.created_at,
		        NULL, NULL
		 FROM orders o
		 WHERE o.customer_id = ?
		 ORDER BY o.created_at DESC, o.id DESC`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting customer orders: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	c.Orders = orders
	return c, nil
}
