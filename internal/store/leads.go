package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ananev/boutique/internal/model"
)

// CreateLead inserts a new inquiry with status "new" and returns its ID.
func CreateLead(ctx context.Context, db *sql.DB, productID int64, customerName, email, phone string) (int64, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO leads (product_id, customer_name, email, phone) VALUES (?, ?, ?, ?)`,
		productID, customerName, email, nullable(phone),
	)
	if err != nil {
		return 0, fmt.Errorf("creating lead: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting lead id: %w", err)
	}
	return id, nil
}

// GetLead returns a lead by ID with its product name.
func GetLead(ctx context.Context, db *sql.DB, id int64) (*model.Lead, error) {
	l := &model.Lead{}
	var phone, productName sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT l.id, l.product_id, l.customer_name, l.email, l.phone, l.status, l.created_at, p.name
		 FROM leads l
		 LEFT JOIN products p ON p.id = l.product_id
		 WHERE l.id = ?`, id,
	).Scan(&l.ID, &l.ProductID, &l.CustomerName, &l.Email, &phone, &l.Status, &l.CreatedAt, &productName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting lead: %w", err)
	}
	l.Phone = phone.String
	l.ProductName = productName.String
	return l, nil
}

// ListLeads returns all leads joined with their product names, newest first.
func ListLeads(ctx context.Context, db *sql.DB) ([]model.Lead, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT l.id, l.product_id, l.customer_name, l.email, l.phone, l.status, l.created_at, p.name
		 FROM leads l
		 LEFT JOIN products p ON p.id = l.product_id
		 ORDER BY l.created_at DESC, l.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		var phone, productName sql.NullString
		if err := rows.Scan(&l.ID, &l.ProductID, &l.CustomerName, &l.Email, &phone,
			&l.Status, &l.CreatedAt, &productName); err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		l.Phone = phone.String
		l.ProductName = productName.String
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// UpdateLeadStatus sets a lead's status. The caller validates the status
// against the enum. Returns false when no row matches.
func UpdateLeadStatus(ctx context.Context, db *sql.DB, id int64, status string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE leads SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return false, fmt.Errorf("updating lead status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking updated rows: %w", err)
	}
	return n > 0, nil
}
