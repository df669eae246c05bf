package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ananev/boutique/internal/model"
)

// CreateCategory creates a new category.
func CreateCategory(ctx context.Context, db *sql.DB, name, description string) (*model.Category, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?)`,
		name, nullable(description),
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// GetCategory returns a category by ID.
func GetCategory(ctx context.Context, db *sql.DB, id int64) (*model.Category, error) {
	c := &model.Category{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &description, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	c.Description = description.String
	return c, nil
}

// ListCategories returns all categories, newest first.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM categories ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory updates a category. Returns false when no row matches.
func UpdateCategory(ctx context.Context, db *sql.DB, id int64, name, description string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ? WHERE id = ?`,
		name, nullable(description), id,
	)
	if err != nil {
		return false, fmt.Errorf("updating category: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking updated rows: %w", err)
	}
	return n > 0, nil
}

// DeleteCategory removes a category. Returns false when no row matches.
func DeleteCategory(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting category: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deleted rows: %w", err)
	}
	return n > 0, nil
}

// CreateSubcategory creates a subcategory under a category.
func CreateSubcategory(ctx context.Context, db *sql.DB, categoryID int64, name, description string) (*model.Subcategory, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO subcategories (category_id, name, description) VALUES (?, ?, ?)`,
		categoryID, name, nullable(description),
	)
	if err != nil {
		return nil, fmt.Errorf("creating subcategory: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting subcategory id: %w", err)
	}

	return GetSubcategory(ctx, db, id)
}

// GetSubcategory returns a subcategory by ID.
func GetSubcategory(ctx context.Context, db *sql.DB, id int64) (*model.Subcategory, error) {
	s := &model.Subcategory{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, category_id, name, description, created_at FROM subcategories WHERE id = ?`, id,
	).Scan(&s.ID, &s.CategoryID, &s.Name, &description, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting subcategory: %w", err)
	}
	s.Description = description.String
	return s, nil
}

// ListSubcategories returns the subcategories of a category, newest first.
func ListSubcategories(ctx context.Context, db *sql.DB, categoryID int64) ([]model.Subcategory, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, category_id, name, description, created_at
		 FROM subcategories WHERE category_id = ?
		 ORDER BY created_at DESC, id DESC`, categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing subcategories: %w", err)
	}
	defer rows.Close()

	var subcategories []model.Subcategory
	for rows.Next() {
		var s model.Subcategory
		var description sql.NullString
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &description, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning subcategory: %w", err)
		}
		s.Description = description.String
		subcategories = append(subcategories, s)
	}
	return subcategories, rows.Err()
}

// UpdateSubcategory updates a subcategory. Returns false when no row matches.
func UpdateSubcategory(ctx context.Context, db *sql.DB, id int64, name, description string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE subcategories SET name = ?, description = ? WHERE id = ?`,
		name, nullable(description), id,
	)
	if err != nil {
		return false, fmt.Errorf("updating subcategory: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking updated rows: %w", err)
	}
	return n > 0, nil
}

// DeleteSubcategory removes a subcategory. Returns false when no row matches.
func DeleteSubcategory(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM subcategories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting subcategory: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deleted rows: %w", err)
	}
	return n > 0, nil
}
